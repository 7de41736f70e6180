package models

import (
	"postgram/db"

	"github.com/google/uuid"
)

// Token is a long-lived API key presented as "Authorization: Token <key>"
type Token struct {
	ID        uint64 `gorm:"primaryKey"`
	CreatedAt int64
	Key       string `gorm:"type:varchar(64);index:uniq_key,unique"`
	UserID    uint64
	User      User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func TokenCreate(userID uint64) (t Token, err error) {
	t.Key = uuid.NewString()
	t.UserID = userID
	return t, db.Instance.Create(&t).Error
}

// TokenUser resolves a token key to its user. A zero user ID means no match
func TokenUser(key string) (user User) {
	t := Token{}
	if db.Instance.Preload("User").First(&t, "key = ?", key).Error != nil {
		return
	}
	return t.User
}

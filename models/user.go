package models

import (
	"postgram/db"
	"postgram/utils"
)

const saltSize = 60

type User struct {
	ID        uint64 `gorm:"primaryKey"`
	CreatedAt int64
	UpdatedAt int64
	Name      string `gorm:"type:varchar(150);index:uniq_name,unique"` // login / display username
	Password  string `gorm:"type:varchar(128)"`
	PassSalt  string `gorm:"type:varchar(200)"`
	IsStaff   bool   `gorm:"not null;default:false"`
}

func UserCreate(name, plainTextPassword string) (u User, err error) {
	u.Name = name
	u.SetPassword(plainTextPassword)
	return u, db.Instance.Create(&u).Error
}

func (u *User) SetPassword(plainTextPassword string) {
	u.PassSalt = utils.RandSalt(saltSize)
	u.Password = utils.Sha512String(plainTextPassword + u.PassSalt)
}

func UserLogin(name, plainTextPassword string) (u User, success bool) {
	result := db.Instance.First(&u, "name = ?", name)
	if result.Error != nil {
		return User{}, false
	}
	if u.Password != utils.Sha512String(plainTextPassword+u.PassSalt) {
		return User{}, false
	}
	return u, true
}

// CanModify is the ownership-or-staff rule used for post updates and deletes
func (u *User) CanModify(ownerID uint64) bool {
	return u.ID == ownerID || u.IsStaff
}

package models

// Like rows are keyed by (user, post) - the storage constraint is what
// ultimately guarantees a user likes a post at most once
type Like struct {
	CreatedAt int64
	UserID    uint64 `gorm:"primaryKey;autoIncrement:false"`
	User      User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	PostID    uint64 `gorm:"primaryKey;autoIncrement:false"`
	Post      Post   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

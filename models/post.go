package models

type Post struct {
	ID        uint64 `gorm:"primaryKey"`
	CreatedAt int64
	UpdatedAt int64
	UserID    uint64
	User      User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Text      string `gorm:"type:varchar(256)"`
	// Set only when a location was supplied and geocoded
	GpsLat  *float64 `gorm:"type:double"`
	GpsLong *float64 `gorm:"type:double"`
}

func (p *Post) HasLocation() bool {
	return p.GpsLat != nil && p.GpsLong != nil
}

package models

import "postgram/db"

func Init() {
	db.Instance.AutoMigrate(&User{})
	db.Instance.AutoMigrate(&Token{})
	db.Instance.AutoMigrate(&Post{})
	db.Instance.AutoMigrate(&PostImage{})
	db.Instance.AutoMigrate(&Comment{})
	db.Instance.AutoMigrate(&Like{})
	db.Instance.AutoMigrate(&Location{})
}

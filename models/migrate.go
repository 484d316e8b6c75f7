package models

import "gorm.io/gorm"

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Category{}, &Product{}, &User{}, &Address{}, &Order{}, &OrderItem{}, &Seeder{})
}

package model

import (
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedAdmin creates the administrator account from ADMIN_* environment
// variables if one does not already exist. It is a no-op when ADMIN_EMAIL or
// ADMIN_PASSWORD is unset, or when the account is already present.
func SeedAdmin(db *gorm.DB) error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return nil
	}

	var existing User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	name := os.Getenv("ADMIN_NAME")
	if name == "" {
		name = "Admin"
	}
	phone := os.Getenv("ADMIN_PHONE")
	if phone == "" {
		phone = "0000000000"
	}

	admin := User{
		Name:     name,
		Email:    email,
		Password: string(hashed),
		Phone:    phone,
		Role:     RoleAdmin,
		IsDoctor: false,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to seed admin account: %w", err)
	}
	return nil
}

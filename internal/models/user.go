package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type User struct {
	ID                        uint   `gorm:"primaryKey"`
	Email                     string `gorm:"uniqueIndex"`
	Password                  string
	FirstName                 string
	LastName                  string
	EmailNotificationsEnabled bool
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
}

func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

package models

import (
	"golang.org/x/crypto/bcrypt"
)

// User is an entry of the login directory
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Password string `json:"password"` // bcrypt hash
}

// CurrentUser is the logged-in user pointer; it never carries the password.
type CurrentUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// SetPassword hashes a password and sets it on the user
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword compares a password with the user's hashed password
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// Sanitize returns the pointer form of the user, excluding the password.
func (u *User) Sanitize() CurrentUser {
	return CurrentUser{
		ID:       u.ID,
		Username: u.Username,
	}
}

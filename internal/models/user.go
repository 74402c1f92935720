package models

import "time"

// User is the authenticated back-office operator
type User struct {
	Email string `json:"email" example:"admin@eshop.com"` // User email
	Name  string `json:"name" example:"Admin User"`       // Display name
}

// Session is an active login of a User
type Session struct {
	ID        string    `json:"id"`
	User      User      `json:"user"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

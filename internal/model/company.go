package model

import "time"

// Company is a tenant account that receives files and notifications.
// PasswordHash is the bcrypt hash of the company login and never leaves the server.
type Company struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Phone        string    `json:"phone"`
	CreatedAt    time.Time `json:"created_at"`
}

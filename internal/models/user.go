package models

import "time"

type User struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	PasswordHash *string   `json:"-"` // NULL для аккаунтов, заведённых через Google
	CreatedAt    time.Time `json:"created_at"`
}

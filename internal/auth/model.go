package auth

import (
	"time"

	"github.com/google/uuid"
)

// User is an auth identity row. Role/company details live in metadata columns
// so the signup trigger can seed profile and dealer rows from them.
type User struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	EmailConfirmed bool      `json:"email_confirmed"`
	UserType       *string   `json:"user_type"`
	FullName       *string   `json:"full_name"`
	CompanyName    *string   `json:"company_name"`
	Phone          *string   `json:"phone"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Metadata mirrors the signup metadata the original kept on the auth user.
type Metadata struct {
	UserType    *string
	FullName    *string
	CompanyName *string
	Phone       *string
}

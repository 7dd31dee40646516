package profiles

import (
	"time"

	"github.com/google/uuid"
)

// Profile maps an auth identity to its role and dealer association.
// Column names user_type and dealer_id are part of the external contract.
type Profile struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	UserType  *string    `json:"user_type"`
	DealerID  *uuid.UUID `json:"dealer_id"`
	FullName  *string    `json:"full_name"`
	FirstName *string    `json:"first_name"`
	LastName  *string    `json:"last_name"`
	Phone     *string    `json:"phone"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

package drivers

import (
	"time"

	"github.com/google/uuid"
)

// Driver is the dealership-facing driver roster row. Background check state
// starts at "pending" and is advanced by an external process.
type Driver struct {
	ID           uuid.UUID  `json:"id"`
	UserID       *uuid.UUID `json:"user_id"`
	DealerID     *uuid.UUID `json:"dealer_id"`
	Name         string     `json:"name"`
	Email        *string    `json:"email"`
	Phone        *string    `json:"phone"`
	CheckrStatus string     `json:"checkr_status"`
	Available    bool       `json:"available"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

package dealers

import (
	"time"

	"github.com/google/uuid"
)

// Dealer is a dealership organization. Email doubles as the idempotency key
// for repair-time re-creation avoidance (best-effort, see unique index on
// lower(email)).
type Dealer struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          *string   `json:"email"`
	Store          *string   `json:"store"`
	Street         *string   `json:"street"`
	City           *string   `json:"city"`
	State          *string   `json:"state"`
	Zip            *string   `json:"zip"`
	Address        *string   `json:"address"`
	Phone          *string   `json:"phone"`
	Website        *string   `json:"website"`
	Position       *string   `json:"position"`
	DealershipCode *string   `json:"dealership_code"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

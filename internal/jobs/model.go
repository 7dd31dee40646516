package jobs

import (
	"time"

	"github.com/google/uuid"
)

// Job is a delivery/swap work order. Trade columns are schema-fragile: not
// every deployment ran the trade-in migration, see Creator's fallback.
type Job struct {
	ID                uuid.UUID  `json:"id"`
	DealerID          uuid.UUID  `json:"dealer_id"`
	CreatedBy         uuid.UUID  `json:"created_by"`
	Type              string     `json:"type"`
	Status            string     `json:"status"`
	PickupAddress     string     `json:"pickup_address"`
	DeliveryAddress   string     `json:"delivery_address"`
	CustomerName      *string    `json:"customer_name"`
	CustomerPhone     *string    `json:"customer_phone"`
	Timeframe         *string    `json:"timeframe"`
	Notes             *string    `json:"notes"`
	VIN               *string    `json:"vin"`
	Year              *int       `json:"year"`
	Make              *string    `json:"make"`
	Model             *string    `json:"model"`
	RequiresTwo       bool       `json:"requires_two"`
	DistanceMiles     int        `json:"distance_miles"`
	TradeYear         *int       `json:"trade_year"`
	TradeMake         *string    `json:"trade_make"`
	TradeModel        *string    `json:"trade_model"`
	TradeVIN          *string    `json:"trade_vin"`
	TradeTransmission *string    `json:"trade_transmission"`
	TrackToken        string     `json:"track_token"`
	AssignedDriver    *uuid.UUID `json:"assigned_driver"`
	CreatedAt         time.Time  `json:"created_at"`
}

// Params is the dealer-side job creation request.
type Params struct {
	Type            string  `json:"type"`
	PickupAddress   string  `json:"pickup_address"`
	DeliveryAddress string  `json:"delivery_address"`
	Year            *int    `json:"year"`
	Make            *string `json:"make"`
	Model           *string `json:"model"`
	VIN             *string `json:"vin"`
	CustomerName    *string `json:"customer_name"`
	CustomerPhone   *string `json:"customer_phone"`
	Timeframe       *string `json:"timeframe"`
	Notes           *string `json:"notes"`
	RequiresTwo     *bool   `json:"requires_two"`
	DistanceMiles   *int    `json:"distance_miles"`

	TradeYear         *int    `json:"trade_year"`
	TradeMake         *string `json:"trade_make"`
	TradeModel        *string `json:"trade_model"`
	TradeVIN          *string `json:"trade_vin"`
	TradeTransmission *string `json:"trade_transmission"`

	// DealerID is honored for admin callers only.
	DealerID *uuid.UUID `json:"dealer_id"`
}

// Payload is the wire body posted to the job creation endpoint. Field names
// are the endpoint's contract.
type Payload struct {
	Type            string  `json:"type"`
	PickupAddress   string  `json:"pickup_address"`
	DeliveryAddress string  `json:"delivery_address"`
	Year            *int    `json:"year"`
	Make            *string `json:"make"`
	Model           *string `json:"model"`
	VIN             *string `json:"vin"`
	CustomerName    *string `json:"customer_name"`
	CustomerPhone   *string `json:"customer_phone"`
	Timeframe       *string `json:"timeframe"`
	Notes           *string `json:"notes"`
	RequiresTwo     bool    `json:"requires_two"`
	DistanceMiles   int     `json:"distance_miles"`

	TradeYear         *int    `json:"trade_year"`
	TradeMake         *string `json:"trade_make"`
	TradeModel        *string `json:"trade_model"`
	TradeVIN          *string `json:"trade_vin"`
	TradeTransmission *string `json:"trade_transmission"`

	DealerID *uuid.UUID `json:"dealer_id,omitempty"`
}

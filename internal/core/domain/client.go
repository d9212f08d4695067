package domain

import "time"

// Measurements holds body measurements in centimeters. Every field is optional.
type Measurements struct {
	Shoulder     *float64
	Chest        *float64
	Waist        *float64
	Hips         *float64
	SleeveLength *float64
	Length       *float64
	Neck         *float64
	Cuff         *float64
}

// Creator is the resolved attribution of a client record.
type Creator struct {
	ID    string
	Name  string
	Email string
}

// Client is a customer measurement record.
type Client struct {
	ID           string
	CustomerName string
	Email        string
	Phone        string
	Address      string
	Notes        string
	Measurements Measurements

	// UserID references the account that created the record. It is used for
	// visibility scoping only.
	UserID string
	// Creator is populated only by listings that resolve UserID.
	Creator *Creator

	CreatedAt time.Time
	UpdatedAt time.Time
}

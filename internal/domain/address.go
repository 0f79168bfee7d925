package domain

import "time"

// Address is a delivery address in a user's address book. Orders embed a
// value copy of the address chosen at checkout.
type Address struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	ContactNumber string    `json:"contactNumber"`
	Location      string    `json:"location"`
	City          string    `json:"city"`
	State         string    `json:"state"`
	Pincode       string    `json:"pincode"`
	Country       string    `json:"country"`
	CreatedAt     time.Time `json:"createdAt"`
}

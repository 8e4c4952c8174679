package entity

import "time"

// Client es el receptor de las facturas de una organización.
type Client struct {
	ID             string
	OrganizationID string
	Name           string
	Email          string
	Address        string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

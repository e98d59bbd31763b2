package domain

import "time"

// Hotel groups rooms under one property.
type Hotel struct {
	ID        string
	Name      string
	Location  string
	Rating    float64
	CreatedAt time.Time
}

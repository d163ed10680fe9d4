package domain

import "time"

type Banner struct {
	ID          int64
	Title       string
	Description string
	ImageURL    string
	LinkURL     string
	IsActive    bool
	CreatedAt   time.Time
}

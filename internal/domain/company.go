package domain

import "time"

type Company struct {
	ID        int64
	Name      string
	IsActive  bool
	ManagerID *int64
	CreatedAt time.Time
}

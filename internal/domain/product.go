package domain

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID       uuid.UUID
	Name     string
	Price    Money
	Stock    int32
	Category string

	CreatedAt time.Time
}

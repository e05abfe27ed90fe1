// internal/models/base.go
package models

import "time"

// Base carries the identity and timestamps every table shares. Rows are
// hard-deleted, so there is no DeletedAt column.
type Base struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Persisted reports whether the row has been written to the store.
func (b Base) Persisted() bool {
	return b.ID != 0
}

// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/splitbill/internal/models"
)

// ErrNotFound is returned when a bill does not exist.
var ErrNotFound = errors.New("bill not found")

// Store defines the interface for bill storage operations.
// This abstraction allows swapping storage backends without changing the
// service layer.
type Store interface {
	// CreateBill persists a new bill.
	// The ID, Title and timestamps are populated by the store when empty.
	CreateBill(ctx context.Context, bill *models.Bill) error

	// GetBill retrieves a bill by its ID with people, items and assignments.
	// Returns ErrNotFound if the bill does not exist.
	GetBill(ctx context.Context, billID string) (*models.Bill, error)

	// UpdateBill replaces the stored state of an existing bill.
	// Returns ErrNotFound if the bill does not exist.
	UpdateBill(ctx context.Context, bill *models.Bill) error

	// Close releases any resources held by the store.
	Close() error
}

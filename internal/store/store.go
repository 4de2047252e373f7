// Package store provides data persistence abstractions for fluckybackup.
package store

import (
	"context"

	"github.com/kurotych/fluckybackup/internal/model"
)

// DeliveryStore defines the interface for webhook delivery history.
type DeliveryStore interface {
	// Record appends a delivery, evicting the oldest beyond the limit.
	Record(ctx context.Context, d *model.Delivery) error
	// List returns up to limit deliveries, newest first. Zero means all.
	List(ctx context.Context, limit int) ([]model.Delivery, error)
	// Get retrieves a delivery by its ID.
	Get(ctx context.Context, id string) (*model.Delivery, error)
	// Clear removes all deliveries.
	Clear(ctx context.Context) error
}

// Store combines all storage interfaces.
type Store interface {
	DeliveryStore
	// Close releases any resources held by the store.
	Close() error
}

// Package store persists plans and their document snapshots.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var ErrNotFound = errors.New("not found")

// Plan is the catalog entry for one garden plan.
type Plan struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Snapshot is one saved version of a plan document. Versions start at 1
// and grow by one per save.
type Snapshot struct {
	ID        string          `json:"id"`
	PlanID    string          `json:"planId"`
	Version   int             `json:"version"`
	Document  json.RawMessage `json:"document"`
	CreatedAt time.Time       `json:"createdAt"`
}

type Store interface {
	CreatePlan(ctx context.Context, id, name string) (*Plan, error)
	GetPlan(ctx context.Context, id string) (*Plan, error)
	ListPlans(ctx context.Context) ([]Plan, error)
	// DeletePlan removes the plan and all of its snapshots.
	DeletePlan(ctx context.Context, id string) error
	SaveSnapshot(ctx context.Context, planID string, doc json.RawMessage) (*Snapshot, error)
	LatestSnapshot(ctx context.Context, planID string) (*Snapshot, error)
	Close()
}

package plan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gardenplan/planner/internal/auth"
	"github.com/gardenplan/planner/internal/document"
	"github.com/gardenplan/planner/internal/store"
	"github.com/gardenplan/planner/internal/typeid"
)

var (
	ErrNotFound        = store.ErrNotFound
	ErrInvalidDocument = errors.New("invalid plan document")
	ErrPlanOpen        = errors.New("plan is open in a live session")
)

// Rooms is the part of the collaboration hub the service needs: live
// documents take precedence over stored snapshots.
type Rooms interface {
	LiveDocument(planID string) (json.RawMessage, bool)
	CloseRoom(planID string)
}

type Service struct {
	store  store.Store
	tokens *auth.Service
	canvas document.Canvas
	rooms  Rooms
}

func NewService(st store.Store, tokens *auth.Service, canvas document.Canvas) *Service {
	return &Service{store: st, tokens: tokens, canvas: canvas}
}

// SetRooms connects the live sessions. Without it only snapshots are used.
func (s *Service) SetRooms(r Rooms) { s.rooms = r }

// Created is returned once, when a plan is made; the edit token is the only
// way back into the plan.
type Created struct {
	Plan  *store.Plan       `json:"plan"`
	Share *auth.ShareResult `json:"share"`
}

func (s *Service) Create(ctx context.Context, name string, canvas *document.Canvas) (*Created, error) {
	planID := typeid.NewPlanID()
	if canvas == nil {
		canvas = &s.canvas
	}

	p, err := s.store.CreatePlan(ctx, planID, name)
	if err != nil {
		return nil, fmt.Errorf("create plan: %w", err)
	}

	// Seed empty document snapshot
	doc := document.NewEmptyDocument(planID, name, typeid.NewLayerID(), *canvas)
	doc.Project.CreatedAt = p.CreatedAt.Format(time.RFC3339)
	doc.Project.UpdatedAt = doc.Project.CreatedAt
	docJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal empty document: %w", err)
	}
	if _, err := s.store.SaveSnapshot(ctx, planID, docJSON); err != nil {
		return nil, fmt.Errorf("create initial snapshot: %w", err)
	}

	share, err := s.tokens.Issue(planID, auth.RoleEdit, 0)
	if err != nil {
		return nil, err
	}
	return &Created{Plan: p, Share: share}, nil
}

func (s *Service) Get(ctx context.Context, planID string) (*store.Plan, error) {
	return s.store.GetPlan(ctx, planID)
}

func (s *Service) List(ctx context.Context) ([]store.Plan, error) {
	return s.store.ListPlans(ctx)
}

func (s *Service) Delete(ctx context.Context, planID string) error {
	if err := s.store.DeletePlan(ctx, planID); err != nil {
		return err
	}
	if s.rooms != nil {
		s.rooms.CloseRoom(planID)
	}
	return nil
}

// LatestDocument returns the live document when the plan is open, and the
// newest snapshot otherwise.
func (s *Service) LatestDocument(ctx context.Context, planID string) (json.RawMessage, error) {
	if s.rooms != nil {
		if doc, ok := s.rooms.LiveDocument(planID); ok {
			return doc, nil
		}
	}
	snap, err := s.store.LatestSnapshot(ctx, planID)
	if err != nil {
		return nil, err
	}
	return snap.Document, nil
}

// SaveDocument stores data as a new snapshot after checking that it decodes
// and belongs to planID. Plans open in a live session must be edited there.
func (s *Service) SaveDocument(ctx context.Context, planID string, data []byte) (*store.Snapshot, error) {
	if s.rooms != nil {
		if _, open := s.rooms.LiveDocument(planID); open {
			return nil, ErrPlanOpen
		}
	}
	doc, err := document.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	if doc.Project.ID != planID {
		return nil, fmt.Errorf("%w: project id %q does not match plan", ErrInvalidDocument, doc.Project.ID)
	}
	return s.store.SaveSnapshot(ctx, planID, data)
}

package collab

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/gardenplan/planner/internal/align"
	"github.com/gardenplan/planner/internal/document"
	"github.com/gardenplan/planner/internal/engine"
	"github.com/gardenplan/planner/internal/scene"
	"github.com/gardenplan/planner/internal/snap"
)

var (
	ErrNoChange   = errors.New("operation changed nothing")
	ErrUnknownOp  = errors.New("unknown operation type")
	ErrBadPayload = errors.New("invalid operation payload")
)

// Session holds the authoritative editor for one plan. All collaborators
// share its undo history.
type Session struct {
	mu        sync.Mutex
	planID    string
	editor    *engine.Editor
	serverSeq int64
	savedSeq  int64
}

func NewSession(doc *document.PlanDocument, opts engine.Options) (*Session, error) {
	e := engine.New(opts)
	if err := e.SetDocument(doc); err != nil {
		return nil, err
	}
	return &Session{planID: doc.Project.ID, editor: e}, nil
}

// Applied is the outcome of one accepted operation.
type Applied struct {
	ServerSeq int64
	Created   []string
	Changes   Changes
	History   engine.HistoryState
}

// Apply runs op against the plan. On success publish is called before the
// session lock is released, so results are published in sequence order.
func (s *Session) Apply(op Operation, publish func(Applied)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	before, err := s.objects()
	if err != nil {
		return err
	}
	created, err := s.apply(op)
	if err != nil {
		return err
	}
	after, err := s.objects()
	if err != nil {
		return err
	}

	s.serverSeq++
	a := Applied{
		ServerSeq: s.serverSeq,
		Created:   created,
		Changes:   diff(before, after),
		History:   s.editor.HistoryState(),
	}
	if publish != nil {
		publish(a)
	}
	return nil
}

func (s *Session) apply(op Operation) ([]string, error) {
	e := s.editor
	e.SetSelection(op.Selection)

	var (
		changed bool
		created []string
	)
	switch op.Type {
	case OpItemAdd:
		if op.Object == nil {
			return nil, fmt.Errorf("%w: missing object", ErrBadPayload)
		}
		id, err := e.AddObject(*op.Object)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadPayload, err)
		}
		created, changed = []string{id}, true

	case OpSelectionDelete:
		changed = e.DeleteSelection()

	case OpSelectionMove:
		if op.Delta == nil {
			return nil, fmt.Errorf("%w: missing delta", ErrBadPayload)
		}
		changed = e.MoveSelection(*op.Delta)

	case OpSelectionAlign:
		mode, err := align.ParseMode(op.Mode)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadPayload, err)
		}
		changed = e.AlignSelection(mode)

	case OpSelectionDistribute:
		axis, err := align.ParseAxis(op.Axis)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadPayload, err)
		}
		changed = e.DistributeSelection(axis)

	case OpSelectionArray:
		if op.Array == nil {
			return nil, fmt.Errorf("%w: missing array", ErrBadPayload)
		}
		ids, err := e.CreateArray(*op.Array)
		if err != nil {
			return nil, err
		}
		created, changed = ids, len(ids) > 0

	case OpSelectionStyle:
		if op.Style == nil {
			return nil, fmt.Errorf("%w: missing style", ErrBadPayload)
		}
		changed = e.SetStyle(*op.Style)

	case OpSelectionType:
		t, err := scene.ParseObjectType(string(op.ObjectType))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadPayload, err)
		}
		changed = e.SetObjectType(t)

	case OpSelectionShadow:
		if op.Shadow == nil {
			return nil, fmt.Errorf("%w: missing shadow", ErrBadPayload)
		}
		changed = e.SetShadow(*op.Shadow)

	case OpHistoryUndo:
		changed = e.Undo()

	case OpHistoryRedo:
		changed = e.Redo()

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownOp, op.Type)
	}

	if !changed {
		return nil, ErrNoChange
	}
	return created, nil
}

// objectSet is the encoded scene in painter's order.
type objectSet struct {
	order   []string
	objects map[string]document.Object
	raw     map[string][]byte
}

func (s *Session) objects() (objectSet, error) {
	items := s.editor.Scene().Items()
	set := objectSet{
		order:   make([]string, len(items)),
		objects: make(map[string]document.Object, len(items)),
		raw:     make(map[string][]byte, len(items)),
	}
	for i, it := range items {
		o, err := document.Encode(it)
		if err != nil {
			return objectSet{}, err
		}
		raw, err := json.Marshal(o)
		if err != nil {
			return objectSet{}, fmt.Errorf("marshal object %s: %w", o.ID, err)
		}
		set.order[i] = o.ID
		set.objects[o.ID] = o
		set.raw[o.ID] = raw
	}
	return set, nil
}

func diff(before, after objectSet) Changes {
	var c Changes
	for _, id := range after.order {
		if old, ok := before.raw[id]; !ok || string(old) != string(after.raw[id]) {
			c.Upserted = append(c.Upserted, after.objects[id])
		}
	}
	for _, id := range before.order {
		if _, ok := after.objects[id]; !ok {
			c.Removed = append(c.Removed, id)
		}
	}
	if !slices.Equal(before.order, after.order) {
		c.Order = after.order
	}
	return c
}

// Document returns the current plan as JSON with the sequence it reflects.
func (s *Session) Document() (json.RawMessage, int64, engine.HistoryState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.editor.DocumentJSON()
	if err != nil {
		return nil, 0, engine.HistoryState{}, err
	}
	return data, s.serverSeq, s.editor.HistoryState(), nil
}

func (s *Session) ServerSeq() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.serverSeq
}

// Snap answers a snap query against the current plan.
func (s *Session) Snap(q SnapQueryPayload) snap.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.SnapBox(q.Box, q.Exclude...)
}

func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.serverSeq != s.savedSeq
}

// pendingSave returns the document to persist, or ok=false when nothing
// changed since the last save.
func (s *Session) pendingSave() (data json.RawMessage, seq int64, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.serverSeq == s.savedSeq {
		return nil, 0, false, nil
	}
	data, err = s.editor.DocumentJSON()
	if err != nil {
		return nil, 0, false, err
	}
	return data, s.serverSeq, true, nil
}

func (s *Session) markSaved(seq int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq > s.savedSeq {
		s.savedSeq = seq
	}
}

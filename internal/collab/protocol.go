package collab

import (
	"encoding/json"

	"github.com/gardenplan/planner/internal/array"
	"github.com/gardenplan/planner/internal/auth"
	"github.com/gardenplan/planner/internal/document"
	"github.com/gardenplan/planner/internal/engine"
	"github.com/gardenplan/planner/internal/geometry"
	"github.com/gardenplan/planner/internal/scene"
	"github.com/gardenplan/planner/internal/snap"
)

type Message struct {
	Type     string          `json:"type"`
	PlanID   string          `json:"planId,omitempty"`
	ClientID string          `json:"clientId,omitempty"`
	Seq      int64           `json:"seq,omitempty"`
	Payload  json.RawMessage `json:"payload"`
}

type PresencePayload struct {
	Cursor      *geometry.Point `json:"cursor,omitempty"`
	Selection   []string        `json:"selection,omitempty"`
	DisplayName string          `json:"displayName,omitempty"`
}

type PresenceStatePayload struct {
	Presences map[string]*PresencePayload `json:"presences"`
}

type PresenceJoinPayload struct {
	ClientID    string `json:"clientId"`
	DisplayName string `json:"displayName"`
}

type PresenceLeavePayload struct {
	ClientID string `json:"clientId"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

const (
	TypePresenceUpdate = "presence.update"
	TypePresenceState  = "presence.state"
	TypePresenceJoin   = "presence.join"
	TypePresenceLeave  = "presence.leave"
	TypeError          = "error"

	// Connection
	TypeWelcome = "welcome"

	// Document sync
	TypeDocSync = "doc.sync"

	// Operation message types
	TypeOpSubmit    = "op.submit"
	TypeOpAck       = "op.ack"
	TypeOpNack      = "op.nack"
	TypeOpBroadcast = "op.broadcast"

	// Snapping, answered to the sender only
	TypeSnapQuery  = "snap.query"
	TypeSnapResult = "snap.result"
)

type WelcomePayload struct {
	ClientID  string    `json:"clientId"`
	Role      auth.Role `json:"role"`
	ServerSeq int64     `json:"serverSeq"`
}

type DocSyncPayload struct {
	Document  json.RawMessage     `json:"document"`
	ServerSeq int64               `json:"serverSeq"`
	History   engine.HistoryState `json:"history"`
}

// --- Operation Types ---

const (
	OpItemAdd             = "item.add"
	OpSelectionDelete     = "selection.delete"
	OpSelectionMove       = "selection.move"
	OpSelectionAlign      = "selection.align"
	OpSelectionDistribute = "selection.distribute"
	OpSelectionArray      = "selection.array"
	OpSelectionStyle      = "selection.style"
	OpSelectionType       = "selection.type"
	OpSelectionShadow     = "selection.shadow"
	OpHistoryUndo         = "history.undo"
	OpHistoryRedo         = "history.redo"
)

// Operation is an editing request. Selection-scoped operations act on the
// ids in Selection, not on any server-side selection.
type Operation struct {
	ID        string   `json:"id"`
	Type      string   `json:"type"`
	ClientSeq int64    `json:"clientSeq"`
	Selection []string `json:"selection,omitempty"`

	// For item.add
	Object *document.Object `json:"object,omitempty"`

	// For selection.move
	Delta *geometry.Point `json:"delta,omitempty"`

	// For selection.align / selection.distribute
	Mode string `json:"mode,omitempty"`
	Axis string `json:"axis,omitempty"`

	// For selection.array
	Array *array.Spec `json:"array,omitempty"`

	// For selection.style / selection.type / selection.shadow
	Style      *scene.Style     `json:"style,omitempty"`
	ObjectType scene.ObjectType `json:"objectType,omitempty"`
	Shadow     *bool            `json:"shadow,omitempty"`
}

// Changes describes the document after an operation, as a patch: objects
// to upsert, ids to drop and, when it changed, the full painter's order.
type Changes struct {
	Upserted []document.Object `json:"upserted,omitempty"`
	Removed  []string          `json:"removed,omitempty"`
	Order    []string          `json:"order,omitempty"`
}

// OperationSubmitPayload is the payload for op.submit messages
type OperationSubmitPayload struct {
	Operation Operation `json:"operation"`
}

// OperationAckPayload is the payload for op.ack messages
type OperationAckPayload struct {
	OperationID     string   `json:"operationId"`
	ServerSeq       int64    `json:"serverSeq"`
	ServerTimestamp int64    `json:"serverTimestamp"`
	Created         []string `json:"created,omitempty"`
}

// OperationNackPayload is the payload for op.nack messages
type OperationNackPayload struct {
	OperationID string `json:"operationId"`
	Reason      string `json:"reason"`
}

// OperationBroadcastPayload is the payload for op.broadcast messages. It is
// sent to every client, the submitter included.
type OperationBroadcastPayload struct {
	Operation Operation           `json:"operation"`
	ClientID  string              `json:"clientId"`
	ServerSeq int64               `json:"serverSeq"`
	Changes   Changes             `json:"changes"`
	History   engine.HistoryState `json:"history"`
}

type SnapQueryPayload struct {
	QueryID string        `json:"queryId"`
	Box     geometry.Rect `json:"box"`
	Exclude []string      `json:"exclude,omitempty"`
}

type SnapResultPayload struct {
	QueryID string      `json:"queryId"`
	Result  snap.Result `json:"result"`
}

func newMessage(typ string, payload any) (*Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{Type: typ, Payload: data}, nil
}

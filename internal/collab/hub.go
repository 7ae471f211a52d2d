package collab

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/gardenplan/planner/internal/auth"
	"github.com/gardenplan/planner/internal/document"
	"github.com/gardenplan/planner/internal/engine"
	"github.com/gardenplan/planner/internal/store"
	"github.com/gardenplan/planner/internal/typeid"
)

// Snapshots loads and saves plan documents.
type Snapshots interface {
	LatestSnapshot(ctx context.Context, planID string) (*store.Snapshot, error)
	SaveSnapshot(ctx context.Context, planID string, doc json.RawMessage) (*store.Snapshot, error)
}

type Options struct {
	Editor engine.Options

	// AutosaveInterval is how often dirty rooms are saved. Zero disables
	// periodic saves; rooms are still saved when they empty and on Stop.
	AutosaveInterval time.Duration
}

type Room struct {
	planID   string
	clients  map[string]*Client // clientID -> client
	presence *PresenceManager
	session  *Session
}

func NewRoom(planID string, session *Session) *Room {
	return &Room{
		planID:   planID,
		clients:  make(map[string]*Client),
		presence: NewPresenceManager(),
		session:  session,
	}
}

type Hub struct {
	mu         sync.RWMutex
	rooms      map[string]*Room // planID -> room
	snapshots  Snapshots
	opts       Options
	register   chan *Client
	unregister chan *Client
	quit       chan struct{}
	done       chan struct{}
	stopOnce   sync.Once
}

func NewHub(snapshots Snapshots, opts Options) *Hub {
	return &Hub{
		rooms:      make(map[string]*Room),
		snapshots:  snapshots,
		opts:       opts,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	var autosave <-chan time.Time
	if h.opts.AutosaveInterval > 0 {
		ticker := time.NewTicker(h.opts.AutosaveInterval)
		defer ticker.Stop()
		autosave = ticker.C
	}

	for {
		select {
		case client := <-h.register:
			h.addClient(ctx, client)
		case client := <-h.unregister:
			h.removeClient(ctx, client)
		case <-autosave:
			h.saveAll(ctx)
		case <-h.quit:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Stop ends Run and saves every room with unsaved changes.
func (h *Hub) Stop(ctx context.Context) {
	h.stopOnce.Do(func() { close(h.quit) })
	<-h.done
	h.saveAll(ctx)
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		client.close()
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// ServeClient upgrades the request and pumps messages for one client until
// the connection closes. Authorization is the caller's job.
func (h *Hub) ServeClient(w http.ResponseWriter, r *http.Request, planID string, role auth.Role, displayName string, origins []string) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: origins,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	if displayName == "" {
		displayName = "Guest"
	}
	client := NewClient(h, conn, uuid.NewString(), displayName, planID, role)

	h.Register(client)

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}

func (h *Hub) openSession(ctx context.Context, planID string) (*Session, error) {
	snap, err := h.snapshots.LatestSnapshot(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("load plan %s: %w", planID, err)
	}
	doc, err := document.Parse(snap.Document)
	if err != nil {
		return nil, fmt.Errorf("load plan %s: %w", planID, err)
	}
	return NewSession(doc, h.opts.Editor)
}

func (h *Hub) addClient(ctx context.Context, client *Client) {
	h.mu.RLock()
	room, ok := h.rooms[client.PlanID]
	h.mu.RUnlock()

	if !ok {
		session, err := h.openSession(ctx, client.PlanID)
		if err != nil {
			slog.Error("open plan session", "error", err, "plan", client.PlanID)
			if errors.Is(err, store.ErrNotFound) {
				client.SendError("plan not found")
			} else {
				client.SendError("could not open plan")
			}
			client.close()
			return
		}
		room = NewRoom(client.PlanID, session)
	}

	h.mu.Lock()
	h.rooms[client.PlanID] = room
	room.clients[client.ClientID] = client
	h.mu.Unlock()

	if msg, err := newMessage(TypeWelcome, WelcomePayload{
		ClientID:  client.ClientID,
		Role:      client.Role,
		ServerSeq: room.session.ServerSeq(),
	}); err == nil {
		client.Send(msg)
	}
	h.sendDocument(room, client)

	// Send current presence state to new client
	if stateMsg := room.presence.StateMessage(); stateMsg != nil {
		client.Send(stateMsg)
	}

	// Broadcast join to other clients
	if joinMsg, err := newMessage(TypePresenceJoin, PresenceJoinPayload{
		ClientID:    client.ClientID,
		DisplayName: client.DisplayName,
	}); err == nil {
		joinMsg.ClientID = client.ClientID
		h.broadcastToRoom(client.PlanID, joinMsg, client.ClientID)
	}

	slog.Info("client joined", "client", client.ClientID, "plan", client.PlanID, "role", client.Role)
}

func (h *Hub) removeClient(ctx context.Context, client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.PlanID]
	if !ok || room.clients[client.ClientID] != client {
		h.mu.Unlock()
		return
	}

	delete(room.clients, client.ClientID)
	client.close()
	room.presence.Remove(client.ClientID)

	empty := len(room.clients) == 0
	if empty {
		delete(h.rooms, client.PlanID)
	}
	h.mu.Unlock()

	slog.Info("client left", "client", client.ClientID, "plan", client.PlanID)

	if empty {
		h.saveRoom(ctx, room)
		return
	}

	// Broadcast leave to remaining clients
	if leaveMsg, err := newMessage(TypePresenceLeave, PresenceLeavePayload{ClientID: client.ClientID}); err == nil {
		leaveMsg.ClientID = client.ClientID
		h.broadcastToRoom(client.PlanID, leaveMsg, "")
	}
}

func (h *Hub) handleMessage(sender *Client, msg *Message) {
	h.mu.RLock()
	room, ok := h.rooms[sender.PlanID]
	h.mu.RUnlock()
	if !ok {
		sender.SendError("not joined")
		return
	}

	switch msg.Type {
	case TypePresenceUpdate:
		h.handlePresenceUpdate(room, sender, msg)
	case TypeOpSubmit:
		h.handleOpSubmit(room, sender, msg)
	case TypeSnapQuery:
		h.handleSnapQuery(room, sender, msg)
	case TypeDocSync:
		h.sendDocument(room, sender)
	default:
		slog.Warn("unknown message type", "type", msg.Type, "client", sender.ClientID)
		sender.SendError("unknown message type")
	}
}

func (h *Hub) handlePresenceUpdate(room *Room, sender *Client, msg *Message) {
	var presence PresencePayload
	if err := json.Unmarshal(msg.Payload, &presence); err != nil {
		slog.Warn("invalid presence payload", "error", err)
		return
	}

	presence.DisplayName = sender.DisplayName
	room.presence.Update(sender.ClientID, &presence)

	// Broadcast to other clients in room
	outMsg, err := newMessage(TypePresenceUpdate, presence)
	if err != nil {
		return
	}
	outMsg.ClientID = sender.ClientID
	h.broadcastToRoom(room.planID, outMsg, sender.ClientID)
}

func (h *Hub) handleOpSubmit(room *Room, sender *Client, msg *Message) {
	var submit OperationSubmitPayload
	if err := json.Unmarshal(msg.Payload, &submit); err != nil {
		h.nack(sender, "", "invalid payload")
		return
	}
	op := submit.Operation
	if op.ID == "" {
		op.ID = typeid.NewOpID()
	}
	if !sender.Role.Allows(auth.RoleEdit) {
		h.nack(sender, op.ID, "read-only access")
		return
	}

	err := room.session.Apply(op, func(a Applied) {
		if ack, err := newMessage(TypeOpAck, OperationAckPayload{
			OperationID:     op.ID,
			ServerSeq:       a.ServerSeq,
			ServerTimestamp: time.Now().UnixMilli(),
			Created:         a.Created,
		}); err == nil {
			ack.Seq = a.ServerSeq
			sender.Send(ack)
		}

		room.presence.Prune(a.Changes.Removed)

		out, err := newMessage(TypeOpBroadcast, OperationBroadcastPayload{
			Operation: op,
			ClientID:  sender.ClientID,
			ServerSeq: a.ServerSeq,
			Changes:   a.Changes,
			History:   a.History,
		})
		if err != nil {
			slog.Error("marshal broadcast", "error", err)
			return
		}
		out.Seq = a.ServerSeq
		h.broadcastToRoom(room.planID, out, "")
	})
	if err != nil {
		slog.Debug("operation rejected", "error", err, "op", op.Type, "client", sender.ClientID)
		h.nack(sender, op.ID, err.Error())
	}
}

func (h *Hub) handleSnapQuery(room *Room, sender *Client, msg *Message) {
	var q SnapQueryPayload
	if err := json.Unmarshal(msg.Payload, &q); err != nil {
		sender.SendError("invalid snap query")
		return
	}
	if out, err := newMessage(TypeSnapResult, SnapResultPayload{
		QueryID: q.QueryID,
		Result:  room.session.Snap(q),
	}); err == nil {
		sender.Send(out)
	}
}

func (h *Hub) sendDocument(room *Room, client *Client) {
	doc, seq, history, err := room.session.Document()
	if err != nil {
		slog.Error("encode plan document", "error", err, "plan", room.planID)
		client.SendError("could not encode plan")
		return
	}
	if msg, err := newMessage(TypeDocSync, DocSyncPayload{Document: doc, ServerSeq: seq, History: history}); err == nil {
		msg.Seq = seq
		client.Send(msg)
	}
}

func (h *Hub) nack(client *Client, opID, reason string) {
	if msg, err := newMessage(TypeOpNack, OperationNackPayload{OperationID: opID, Reason: reason}); err == nil {
		client.Send(msg)
	}
}

func (h *Hub) broadcastToRoom(planID string, msg *Message, excludeClientID string) {
	h.mu.RLock()
	room, ok := h.rooms[planID]
	if !ok {
		h.mu.RUnlock()
		return
	}

	clients := make([]*Client, 0, len(room.clients))
	for _, c := range room.clients {
		if c.ClientID != excludeClientID {
			clients = append(clients, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.Send(msg)
	}
}

// LiveDocument returns the in-memory document of an open plan.
func (h *Hub) LiveDocument(planID string) (json.RawMessage, bool) {
	h.mu.RLock()
	room, ok := h.rooms[planID]
	h.mu.RUnlock()
	if !ok {
		return nil, false
	}
	doc, _, _, err := room.session.Document()
	if err != nil {
		return nil, false
	}
	return doc, true
}

// CloseRoom disconnects everyone from a plan without saving, e.g. after
// the plan was deleted.
func (h *Hub) CloseRoom(planID string) {
	h.mu.Lock()
	room, ok := h.rooms[planID]
	delete(h.rooms, planID)
	h.mu.Unlock()
	if !ok {
		return
	}

	for _, c := range room.clients {
		c.SendError("plan deleted")
		c.close()
	}
	slog.Info("room closed", "plan", planID)
}

func (h *Hub) saveAll(ctx context.Context) {
	h.mu.RLock()
	rooms := make([]*Room, 0, len(h.rooms))
	for _, r := range h.rooms {
		rooms = append(rooms, r)
	}
	h.mu.RUnlock()

	for _, r := range rooms {
		h.saveRoom(ctx, r)
	}
}

func (h *Hub) saveRoom(ctx context.Context, room *Room) {
	data, seq, ok, err := room.session.pendingSave()
	if err != nil {
		slog.Error("encode plan for save", "error", err, "plan", room.planID)
		return
	}
	if !ok {
		return
	}

	snap, err := h.snapshots.SaveSnapshot(ctx, room.planID, data)
	if err != nil {
		slog.Error("save plan", "error", err, "plan", room.planID)
		return
	}
	room.session.markSaved(seq)
	slog.Info("plan saved", "plan", room.planID, "version", snap.Version)
}

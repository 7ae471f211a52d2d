package collab

import (
	"log/slog"
	"maps"
	"sync"
)

// PresenceManager tracks each connected client's cursor and selection.
type PresenceManager struct {
	mu        sync.RWMutex
	presences map[string]*PresencePayload // clientID -> presence
}

func NewPresenceManager() *PresenceManager {
	return &PresenceManager{
		presences: make(map[string]*PresencePayload),
	}
}

func (pm *PresenceManager) Update(clientID string, p *PresencePayload) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.presences[clientID] = p
}

func (pm *PresenceManager) Remove(clientID string) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	delete(pm.presences, clientID)
}

// Prune drops deleted ids from every selection, e.g. after a remote delete.
func (pm *PresenceManager) Prune(removed []string) {
	if len(removed) == 0 {
		return
	}
	gone := make(map[string]struct{}, len(removed))
	for _, id := range removed {
		gone[id] = struct{}{}
	}

	pm.mu.Lock()
	defer pm.mu.Unlock()
	for clientID, p := range pm.presences {
		kept := make([]string, 0, len(p.Selection))
		for _, id := range p.Selection {
			if _, ok := gone[id]; !ok {
				kept = append(kept, id)
			}
		}
		if len(kept) != len(p.Selection) {
			np := *p
			np.Selection = kept
			pm.presences[clientID] = &np
		}
	}
}

func (pm *PresenceManager) GetAll() map[string]*PresencePayload {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return maps.Clone(pm.presences)
}

func (pm *PresenceManager) StateMessage() *Message {
	msg, err := newMessage(TypePresenceState, PresenceStatePayload{Presences: pm.GetAll()})
	if err != nil {
		slog.Error("marshal presence state", "error", err)
		return nil
	}
	return msg
}

package livefeed

import (
	"context"
	"log"
	"sync"
)

// ManagerService tracks the open detail pages.
type ManagerService struct {
	clients map[Client]struct{}
	mu      sync.RWMutex

	RegisterCh   chan Client
	UnregisterCh chan Client
	// NudgeCh carries complaint ids changed through this server.
	NudgeCh chan string

	done chan struct{}
}

func NewManagerService() *ManagerService {
	return &ManagerService{
		clients:      make(map[Client]struct{}),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		NudgeCh:      make(chan string, 64),
		done:         make(chan struct{}),
	}
}

// Run serves registrations until ctx ends, then closes every client.
func (m *ManagerService) Run(ctx context.Context) {
	log.Println("INFO: live feed manager started")
	defer close(m.done)
	for {
		select {
		case client := <-m.RegisterCh:
			m.mu.Lock()
			m.clients[client] = struct{}{}
			m.mu.Unlock()
			log.Printf("INFO: live viewer %s watching complaint %s", client.GetViewerID(), client.GetComplaintID())

		case client := <-m.UnregisterCh:
			m.mu.Lock()
			if _, ok := m.clients[client]; ok {
				delete(m.clients, client)
				client.Close()
			}
			m.mu.Unlock()

		case id := <-m.NudgeCh:
			m.mu.RLock()
			for client := range m.clients {
				if client.GetComplaintID() == id {
					client.Nudge()
				}
			}
			m.mu.RUnlock()

		case <-ctx.Done():
			m.mu.Lock()
			for client := range m.clients {
				client.Close()
				delete(m.clients, client)
			}
			m.mu.Unlock()
			log.Println("INFO: live feed manager stopped")
			return
		}
	}
}

// Register hands client to the running manager. It returns false once the
// manager has stopped.
func (m *ManagerService) Register(client Client) bool {
	select {
	case m.RegisterCh <- client:
		return true
	case <-m.done:
		return false
	}
}

// Done is closed once Run has returned.
func (m *ManagerService) Done() <-chan struct{} { return m.done }

// Nudge makes every viewer of complaint id poll now. It never blocks; a
// dropped nudge only delays the update until the next tick.
func (m *ManagerService) Nudge(id string) {
	select {
	case m.NudgeCh <- id:
	default:
		log.Printf("WARNING: live feed nudge for %s dropped", id)
	}
}

// Count returns the number of open detail pages.
func (m *ManagerService) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

// Watching returns the number of open pages showing complaint id.
func (m *ManagerService) Watching(id string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for client := range m.clients {
		if client.GetComplaintID() == id {
			n++
		}
	}
	return n
}

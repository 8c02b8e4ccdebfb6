// Package flash carries one-shot notifications across a redirect. Each
// browser gets a random box id in the flash cookie; messages wait in the box
// until the next page renders them.
package flash

import (
	"aduan/frontend/internal/config"
	"aduan/frontend/internal/models"
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Store keeps pending notifications per box. storage.Service is the Redis
// implementation; MemoryStore serves a single instance.
type Store interface {
	PushFlash(ctx context.Context, box string, f models.Flash) error
	PopFlashes(ctx context.Context, box string) ([]models.Flash, error)
}

type entry struct {
	items   []models.Flash
	expires time.Time
}

// MemoryStore is an in-process Store with the same TTL semantics.
type MemoryStore struct {
	mu    sync.Mutex
	boxes map[string]*entry
	ttl   time.Duration
	now   func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{boxes: make(map[string]*entry), ttl: ttl, now: time.Now}
}

func (m *MemoryStore) PushFlash(_ context.Context, box string, f models.Flash) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.sweep(now)
	e, ok := m.boxes[box]
	if !ok {
		e = &entry{}
		m.boxes[box] = e
	}
	e.items = append(e.items, f)
	e.expires = now.Add(m.ttl)
	return nil
}

func (m *MemoryStore) PopFlashes(_ context.Context, box string) ([]models.Flash, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.boxes[box]
	if !ok {
		return nil, nil
	}
	delete(m.boxes, box)
	if m.now().After(e.expires) {
		return nil, nil
	}
	return e.items, nil
}

// sweep drops expired boxes. Callers hold mu.
func (m *MemoryStore) sweep(now time.Time) {
	for id, e := range m.boxes {
		if now.After(e.expires) {
			delete(m.boxes, id)
		}
	}
}

const (
	storeKey = "flash.store"
	boxKey   = "flash.box"
)

// Middleware assigns the browser a box and makes the store available to Add
// and Pop.
func Middleware(store Store, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		box, err := c.Cookie(config.FlashCookie)
		if err != nil || uuid.Validate(box) != nil {
			box = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(config.FlashCookie, box, int(config.SessionLifetime.Seconds()), "/", "", secure, true)
		}
		c.Set(storeKey, store)
		c.Set(boxKey, box)
		c.Next()
	}
}

func from(c *gin.Context) (Store, string, bool) {
	s, ok := c.Get(storeKey)
	if !ok {
		return nil, "", false
	}
	store, ok := s.(Store)
	if !ok {
		return nil, "", false
	}
	return store, c.GetString(boxKey), true
}

// Add queues a notification for the next page this browser renders.
func Add(c *gin.Context, kind models.FlashKind, message string) {
	store, box, ok := from(c)
	if !ok {
		log.Printf("WARNING: flash %q dropped: no flash middleware", message)
		return
	}
	if err := store.PushFlash(c.Request.Context(), box, models.Flash{Kind: kind, Message: message}); err != nil {
		log.Printf("ERROR: failed to queue flash: %v", err)
	}
}

func Success(c *gin.Context, message string) { Add(c, models.FlashSuccess, message) }
func Error(c *gin.Context, message string)   { Add(c, models.FlashError, message) }
func Info(c *gin.Context, message string)    { Add(c, models.FlashInfo, message) }

// Pop returns and clears the browser's pending notifications.
func Pop(c *gin.Context) []models.Flash {
	store, box, ok := from(c)
	if !ok {
		return nil
	}
	items, err := store.PopFlashes(c.Request.Context(), box)
	if err != nil {
		log.Printf("ERROR: failed to read flashes: %v", err)
		return nil
	}
	return items
}

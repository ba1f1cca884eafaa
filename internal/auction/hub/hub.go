// Package hub pushes state changes to connected operator panels over WebSocket.
package hub

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/olahol/melody"
	"github.com/rs/zerolog"

	"auction-matcher/internal/syncutil"
)

const (
	TypeLotsSimilar      = "lots.similar"
	TypeLotsUpdated      = "lots.updated"
	TypeDonationsUpdated = "donations.updated"
)

// Notification — конверт всех сообщений, уходящих клиентам.
type Notification struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type Hub struct {
	m      *melody.Melody
	logger zerolog.Logger

	mu    syncutil.Mutex
	greet func() []Notification

	// последняя отправленная версия по типу уведомления
	versionMu syncutil.Mutex
	versions  map[string]uint64
}

func New(logger zerolog.Logger) *Hub {
	h := &Hub{
		m:      melody.New(),
		logger:   logger.With().Str("component", "hub").Logger(),
		versions: make(map[string]uint64),
	}
	// панель открывают с любого origin, CORS для /ws не действует
	h.m.Upgrader.CheckOrigin = func(r *http.Request) bool { return true }

	h.m.HandleConnect(h.onConnect)
	h.m.HandleDisconnect(func(s *melody.Session) {
		h.logger.Debug().Str("remote", s.Request.RemoteAddr).Msg("ws client disconnected")
	})
	h.m.HandleError(func(s *melody.Session, err error) {
		h.logger.Debug().Err(err).Str("remote", s.Request.RemoteAddr).Msg("ws session error")
	})
	return h
}

// Greet sets the notifications every new client receives right after connecting,
// so a fresh panel does not wait for the next change.
func (h *Hub) Greet(fn func() []Notification) {
	h.mu.Lock()
	h.greet = fn
	h.mu.Unlock()
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h.m.HandleRequest(w, r); err != nil {
		h.logger.Error().Err(err).Msg("handling websocket request")
	}
}

// Broadcast sends one notification to all connected clients.
func (h *Hub) Broadcast(typ string, data any) error {
	msg, err := encode(typ, data)
	if err != nil {
		return err
	}
	if err := h.m.Broadcast(msg); err != nil {
		return fmt.Errorf("broadcast %s: %w", typ, err)
	}
	return nil
}

// Notify is Broadcast for callers that only log failures.
func (h *Hub) Notify(typ string, data any) {
	if err := h.Broadcast(typ, data); err != nil {
		h.logger.Warn().Err(err).Str("type", typ).Msg("notification dropped")
	}
}

// NotifyVersioned is Notify for data that carries a version. Notifications of a
// type arriving with a version not newer than the last sent one are dropped, so
// clients never see an older state after a newer one.
func (h *Hub) NotifyVersioned(typ string, version uint64, data any) {
	h.versionMu.Lock()
	defer h.versionMu.Unlock()
	if last, ok := h.versions[typ]; ok && version <= last {
		h.logger.Debug().Str("type", typ).Uint64("version", version).Uint64("last", last).Msg("outdated notification dropped")
		return
	}
	h.versions[typ] = version
	h.Notify(typ, data)
}

func (h *Hub) Clients() int {
	return h.m.Len()
}

func (h *Hub) Close() error {
	return h.m.Close()
}

func (h *Hub) onConnect(s *melody.Session) {
	h.logger.Debug().Str("remote", s.Request.RemoteAddr).Msg("ws client connected")

	h.mu.Lock()
	greet := h.greet
	h.mu.Unlock()
	if greet == nil {
		return
	}
	for _, n := range greet() {
		msg, err := encode(n.Type, n.Data)
		if err != nil {
			h.logger.Error().Err(err).Str("type", n.Type).Msg("encoding greeting")
			continue
		}
		if err := s.Write(msg); err != nil {
			h.logger.Debug().Err(err).Msg("greeting not delivered")
			return
		}
	}
}

func encode(typ string, data any) ([]byte, error) {
	b, err := json.Marshal(Notification{Type: typ, Data: data})
	if err != nil {
		return nil, fmt.Errorf("marshal %s notification: %w", typ, err)
	}
	return b, nil
}

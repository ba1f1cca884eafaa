package hub

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auction-matcher/internal/auction/model"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func read(t *testing.T, conn *websocket.Conn) map[string]json.RawMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	var env map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(msg, &env))
	return env
}

func TestHub_GreetThenBroadcast(t *testing.T) {
	h := New(zerolog.Nop())
	h.Greet(func() []Notification {
		return []Notification{{
			Type: TypeLotsSimilar,
			Data: model.Groups{{ID: 2, Members: []int{2, 3}}},
		}}
	})
	srv := httptest.NewServer(h)
	t.Cleanup(func() {
		_ = h.Close()
		srv.Close()
	})

	conn := dial(t, srv)

	greeting := read(t, conn)
	assert.JSONEq(t, `"lots.similar"`, string(greeting["type"]))
	assert.JSONEq(t, `{"2":[2,3]}`, string(greeting["data"]))

	// приветствие пришло, значит сессия зарегистрирована
	require.NoError(t, h.Broadcast(TypeDonationsUpdated, []string{"d1"}))
	got := read(t, conn)
	assert.JSONEq(t, `"donations.updated"`, string(got["type"]))
	assert.JSONEq(t, `["d1"]`, string(got["data"]))
	assert.Equal(t, 1, h.Clients())
}

func TestHub_NotifyVersionedDropsOutdated(t *testing.T) {
	h := New(zerolog.Nop())
	srv := httptest.NewServer(h)
	t.Cleanup(func() {
		_ = h.Close()
		srv.Close()
	})

	conn := dial(t, srv)
	require.Eventually(t, func() bool { return h.Clients() == 1 }, 5*time.Second, time.Millisecond)

	h.NotifyVersioned(TypeLotsUpdated, 3, []string{"три лота"})
	h.NotifyVersioned(TypeLotsUpdated, 2, []string{"два лота"})
	h.NotifyVersioned(TypeLotsUpdated, 3, []string{"повтор"})
	// у другого типа своя нумерация
	h.NotifyVersioned(TypeDonationsUpdated, 1, []string{"d1"})

	got := read(t, conn)
	assert.JSONEq(t, `"lots.updated"`, string(got["type"]))
	assert.JSONEq(t, `["три лота"]`, string(got["data"]))

	got = read(t, conn)
	assert.JSONEq(t, `"donations.updated"`, string(got["type"]))
	assert.JSONEq(t, `["d1"]`, string(got["data"]))
}

func TestHub_BroadcastWithoutClients(t *testing.T) {
	h := New(zerolog.Nop())
	t.Cleanup(func() { _ = h.Close() })

	assert.NoError(t, h.Broadcast(TypeLotsUpdated, nil))
	assert.Zero(t, h.Clients())
}

func TestEncode(t *testing.T) {
	b, err := encode(TypeLotsSimilar, model.Groups{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"lots.similar","data":{}}`, string(b))

	_, err = encode("bad", func() {})
	assert.Error(t, err)
}

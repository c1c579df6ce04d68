package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/avvvet/cardscanner-services/internal/comm"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcastDropsStalledClient(t *testing.T) {
	orig := writeWait
	writeWait = 50 * time.Millisecond
	t.Cleanup(func() { writeWait = orig })

	s := NewWs()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		s.StoreConnection("stalled", conn)
	}))
	t.Cleanup(srv.Close)

	// the client connects and never reads
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.Eventually(t, func() bool { return s.Count() == 1 }, time.Second, 10*time.Millisecond)

	payload := []byte(`"` + strings.Repeat("x", 1<<20) + `"`)
	msg := &comm.WSMessage{Type: comm.TypeScanCompleted, Data: payload}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 500 && s.Count() > 0; i++ {
			s.Broadcast(msg)
		}
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("broadcast blocked on a client that stopped reading")
	}
	assert.Equal(t, 0, s.Count())
	assert.False(t, s.Send("stalled", msg))
}

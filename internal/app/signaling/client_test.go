package signaling

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// serverConn upgrades a loopback request and returns the server side of a
// live WebSocket connection.
func serverConn(t *testing.T) *websocket.Conn {
	t.Helper()

	upgrader := websocket.Upgrader{}
	connCh := make(chan *websocket.Conn, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		connCh <- conn
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	clientSide, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { clientSide.Close() })

	select {
	case conn := <-connCh:
		return conn
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the server connection")
		return nil
	}
}

func TestClient_SendAfterDisconnectReturnsError(t *testing.T) {
	relay, _, _ := newTestRelay()
	c := NewClient(relay, serverConn(t))

	c.cleanupOnDisconnect(context.Background())

	// A hub broadcast holding a stale snapshot of this peer lands here; the
	// failure must stay an error return on this client, never a panic in the
	// broadcaster's goroutine.
	if err := c.Send(EventUserLeft, UserLeftPayload{UserID: "u1"}); err == nil {
		t.Fatal("send after disconnect must return an error")
	}
}

func TestClient_SendRacingDisconnect(t *testing.T) {
	relay, _, _ := newTestRelay()
	c := NewClient(relay, serverConn(t))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				c.Send(EventUserJoined, UserJoinedPayload{UserID: "u1", Role: "patient"})
			}
		}()
	}

	c.cleanupOnDisconnect(context.Background())
	wg.Wait()
}

func TestClient_DisconnectTwiceIsHarmless(t *testing.T) {
	relay, _, _ := newTestRelay()
	c := NewClient(relay, serverConn(t))

	c.cleanupOnDisconnect(context.Background())
	c.cleanupOnDisconnect(context.Background())
}

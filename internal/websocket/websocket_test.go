package websocket

import (
	"errors"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexandermjones/overwatch-queue-discord-bot/internal/game/manager"
)

func newClient(hub *Hub, id, game string) *Client {
	c := &Client{ID: id, Name: id, Send: make(chan OutgoingMessage, 1), Hub: hub}
	c.Subscribe(game)
	return c
}

func TestHubBroadcastToGame(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Close()

	c1 := newClient(hub, "a", "overwatch")
	c2 := newClient(hub, "b", "overwatch")
	c3 := newClient(hub, "c", "chess")

	hub.register <- c1
	hub.register <- c2
	hub.register <- c3

	hub.BroadcastToGame("overwatch", OutgoingMessage{Event: EventStatus, Data: "s"})

	time.Sleep(20 * time.Millisecond)

	assert.Equal(t, EventStatus, (<-c1.Send).Event)
	assert.Equal(t, EventStatus, (<-c2.Send).Event)

	select {
	case <-c3.Send:
		assert.Fail(t, "chess subscriber should NOT receive overwatch status")
	default:
	}
}

func TestHubSendToClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Close()

	c1 := newClient(hub, "a", "overwatch")
	c2 := newClient(hub, "b", "overwatch")
	hub.register <- c1
	hub.register <- c2

	hub.SendToClient("a", OutgoingMessage{Event: EventReply, Data: "hello a"})

	time.Sleep(20 * time.Millisecond)

	received := <-c1.Send
	assert.Equal(t, EventReply, received.Event)
	assert.Equal(t, "hello a", received.Data)

	select {
	case <-c2.Send:
		assert.Fail(t, "b should NOT receive anything")
	default:
	}
}

func TestHubRegisterUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Close()

	c := newClient(hub, "a", "")

	hub.register <- c
	time.Sleep(10 * time.Millisecond)

	_, ok := hub.ClientByID("a")
	require.True(t, ok, "client should be registered")

	hub.unregister <- c
	time.Sleep(10 * time.Millisecond)

	_, ok = hub.ClientByID("a")
	assert.False(t, ok, "client should be removed after unregister")

	_, open := <-c.Send
	assert.False(t, open, "send channel should be closed")
}

func TestHubFullBufferDrops(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Close()

	c := newClient(hub, "a", "overwatch")
	hub.register <- c

	hub.BroadcastToGame("overwatch", OutgoingMessage{Event: "first"})
	hub.BroadcastToGame("overwatch", OutgoingMessage{Event: "second"})
	time.Sleep(10 * time.Millisecond)

	assert.Equal(t, "first", (<-c.Send).Event)
	select {
	case <-c.Send:
		assert.Fail(t, "second message should have been dropped")
	default:
	}
}

func TestHubSubscribe(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Close()

	c := newClient(hub, "a", "")
	hub.register <- c

	hub.incoming <- IncomingMessage{From: "a", Event: EventSubscribe, Data: "Overwatch"}
	time.Sleep(10 * time.Millisecond)

	assert.Equal(t, "overwatch", c.Game())
}

func TestHubRoutesIncoming(t *testing.T) {
	hub := NewHub()
	got := make(chan IncomingMessage, 1)
	hub.OnIncoming = func(c *Client, msg IncomingMessage) {
		assert.Equal(t, "a", c.Name)
		got <- msg
	}
	go hub.Run()
	defer hub.Close()

	c := newClient(hub, "a", "")
	hub.register <- c

	hub.incoming <- IncomingMessage{From: "a", Event: EventCommand, Data: "!next"}

	select {
	case msg := <-got:
		assert.Equal(t, EventCommand, msg.Event)
		assert.Equal(t, "!next", msg.Data)
	case <-time.After(time.Second):
		t.Fatal("incoming message was not routed")
	}
}

func TestHubKeepsClientCommandOrder(t *testing.T) {
	const n = commandBuffer - 1

	hub := NewHub()
	var (
		mu   sync.Mutex
		seen []string
	)
	done := make(chan struct{})
	hub.OnIncoming = func(c *Client, msg IncomingMessage) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, msg.Data.(string))
		if len(seen) == n {
			close(done)
		}
	}
	go hub.Run()
	defer hub.Close()

	c := newClient(hub, "a", "overwatch")
	hub.register <- c

	want := make([]string, n)
	for i := range want {
		want[i] = strconv.Itoa(i)
		hub.incoming <- IncomingMessage{From: "a", Event: EventCommand, Data: want[i]}
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("not every command was handled")
	}
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, want, seen)
}

func TestHubClosedRejectsNewSockets(t *testing.T) {
	gin.SetMode(gin.TestMode)

	hub := NewHub()
	go hub.Run()
	hub.Close()

	r := gin.New()
	r.GET("/ws", ServeWS(hub))
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?name=ana"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	// the handler returns and closes the socket instead of blocking on register
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = conn.ReadMessage()
	require.Error(t, err)
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) {
		assert.False(t, netErr.Timeout(), "socket should be closed, not left hanging")
	}
}

func TestHubQueueChanged(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Close()

	c := newClient(hub, "a", "overwatch")
	hub.register <- c

	hub.QueueChanged(manager.Info{Game: "Overwatch", Capacity: 6}, "overwatch")
	time.Sleep(10 * time.Millisecond)

	msg := <-c.Send
	assert.Equal(t, EventStatus, msg.Event)
	info, ok := msg.Data.(manager.Info)
	require.True(t, ok)
	assert.Equal(t, 6, info.Capacity)
}

func TestServeWS(t *testing.T) {
	gin.SetMode(gin.TestMode)

	hub := NewHub()
	replies := make(chan string, 1)
	hub.OnIncoming = func(c *Client, msg IncomingMessage) {
		text, _ := msg.Data.(string)
		hub.SendToClient(c.ID, OutgoingMessage{Event: EventReply, Data: c.Name + ":" + text})
	}
	go hub.Run()
	defer hub.Close()

	r := gin.New()
	r.GET("/ws", ServeWS(hub))
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?name=ana&game=Overwatch"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(IncomingMessage{Event: EventCommand, Data: "!status"}))

	go func() {
		var out OutgoingMessage
		if err := conn.ReadJSON(&out); err == nil {
			s, _ := out.Data.(string)
			replies <- s
		}
	}()

	select {
	case s := <-replies:
		assert.Equal(t, "ana:!status", s)
	case <-time.After(2 * time.Second):
		t.Fatal("no reply received")
	}
}

func TestServeWSRequiresName(t *testing.T) {
	gin.SetMode(gin.TestMode)

	hub := NewHub()
	go hub.Run()
	defer hub.Close()

	r := gin.New()
	r.GET("/ws", ServeWS(hub))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/ws", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
}

func BenchmarkHubBroadcastToGame(b *testing.B) {
	hub := NewHub()
	go hub.Run()
	defer hub.Close()

	c1 := &Client{ID: "a", Send: make(chan OutgoingMessage, 1024), Hub: hub}
	c2 := &Client{ID: "b", Send: make(chan OutgoingMessage, 1024), Hub: hub}
	c1.Subscribe("overwatch")
	c2.Subscribe("overwatch")

	go func() {
		for range c1.Send {
		}
	}()
	go func() {
		for range c2.Send {
		}
	}()

	hub.register <- c1
	hub.register <- c2

	b.ResetTimer()
	msg := OutgoingMessage{Event: "bench"}
	for i := 0; i < b.N; i++ {
		hub.BroadcastToGame("overwatch", msg)
	}
}

package websocket

import (
	"sync"

	"github.com/alexandermjones/overwatch-queue-discord-bot/internal/game/manager"
	"github.com/alexandermjones/overwatch-queue-discord-bot/internal/utils"
)

type Hub struct {
	clients    map[string]*Client // client id -> client
	register   chan *Client
	unregister chan *Client
	broadcast  chan broadcastReq
	sendOne    chan sendReq
	incoming   chan IncomingMessage
	OnIncoming func(*Client, IncomingMessage)
	quit       chan struct{}
	closeOnce  sync.Once
	mu         sync.RWMutex
}

type broadcastReq struct {
	Game    string
	Message OutgoingMessage
}

type sendReq struct {
	ID      string
	Message OutgoingMessage
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan broadcastReq),
		sendOne:    make(chan sendReq),
		incoming:   make(chan IncomingMessage),
		quit:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	utils.Log.Info("hub started")

	for {
		select {
		case c := <-h.register:
			if c.cmds == nil {
				c.cmds = make(chan IncomingMessage, commandBuffer)
			}
			go h.work(c)
			h.mu.Lock()
			h.clients[c.ID] = c
			n := len(h.clients)
			h.mu.Unlock()
			utils.Log.Debug("hub register", "client", c.ID, "name", c.Name, "game", c.Game(), "clients", n)

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c.ID]; ok {
				delete(h.clients, c.ID)
				close(c.Send)
				close(c.cmds)
				utils.Log.Debug("hub unregister", "client", c.ID, "clients", len(h.clients))
			}
			h.mu.Unlock()

		case req := <-h.broadcast:
			h.mu.RLock()
			for _, c := range h.clients {
				if c.Game() == req.Game {
					deliver(c, req.Message)
				}
			}
			h.mu.RUnlock()

		case req := <-h.sendOne:
			h.mu.RLock()
			if c, ok := h.clients[req.ID]; ok {
				deliver(c, req.Message)
			}
			h.mu.RUnlock()

		case req := <-h.incoming:
			h.mu.RLock()
			c, ok := h.clients[req.From]
			h.mu.RUnlock()
			if !ok {
				continue
			}
			if req.Event == EventSubscribe {
				if game, ok := req.Data.(string); ok {
					c.Subscribe(manager.Key(game))
				}
				continue
			}
			// queued per client: off the loop, but in the order sent
			select {
			case c.cmds <- req:
			default:
				utils.Log.Warn("client command queue full, dropping", "client", c.ID, "event", req.Event)
				deliver(c, OutgoingMessage{Event: EventError, Data: "too many pending commands"})
			}

		case <-h.quit:
			h.mu.Lock()
			for id, c := range h.clients {
				close(c.Send)
				close(c.cmds)
				delete(h.clients, id)
			}
			h.mu.Unlock()
			return
		}
	}
}

// commandBuffer bounds how many commands one client may have pending.
const commandBuffer = 64

// work runs a client's incoming messages one at a time until the client is
// unregistered.
func (h *Hub) work(c *Client) {
	for msg := range c.cmds {
		if h.OnIncoming != nil {
			h.OnIncoming(c, msg)
		}
	}
}

// deliver drops the message when the client's buffer is full.
func deliver(c *Client, msg OutgoingMessage) {
	select {
	case c.Send <- msg:
	default:
		utils.Log.Warn("client buffer full, dropping message", "client", c.ID, "event", msg.Event)
	}
}

// BroadcastToGame sends msg to every client subscribed to the game key.
func (h *Hub) BroadcastToGame(game string, msg OutgoingMessage) {
	select {
	case h.broadcast <- broadcastReq{Game: game, Message: msg}:
	case <-h.quit:
	}
}

func (h *Hub) SendToClient(id string, msg OutgoingMessage) {
	select {
	case h.sendOne <- sendReq{ID: id, Message: msg}:
	case <-h.quit:
	}
}

func (h *Hub) ClientByID(id string) (*Client, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.clients[id]
	return c, ok
}

// QueueChanged pushes a fresh status to the game's subscribers.
func (h *Hub) QueueChanged(info manager.Info, key string) {
	h.BroadcastToGame(key, OutgoingMessage{Event: EventStatus, Data: info})
}

func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.quit) })
}

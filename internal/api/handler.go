package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/alexandermjones/overwatch-queue-discord-bot/internal/command"
	"github.com/alexandermjones/overwatch-queue-discord-bot/internal/game/manager"
	"github.com/alexandermjones/overwatch-queue-discord-bot/internal/game/rotation"
)

type Handler struct {
	sessions   *manager.Manager
	dispatcher *command.Dispatcher
}

func NewHandler(sessions *manager.Manager, dispatcher *command.Dispatcher) *Handler {
	return &Handler{sessions: sessions, dispatcher: dispatcher}
}

// Register mounts the queue routes on r.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/health", h.Health)
	r.POST("/command", h.Command)
	r.GET("/queues", h.List)
	r.GET("/queues/:game", h.Get)
	r.GET("/queues/:game/wait/:player", h.Wait)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// POST /command  body: {author, text}
func (h *Handler) Command(c *gin.Context) {
	var req command.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	resp, err := h.dispatcher.Handle(c.Request.Context(), req)
	if errors.Is(err, command.ErrNotCommand) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GET /queues
func (h *Handler) List(c *gin.Context) {
	sessions := h.sessions.List()
	out := make([]manager.Info, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, s.Info())
	}
	c.JSON(http.StatusOK, out)
}

// GET /queues/:game
func (h *Handler) Get(c *gin.Context) {
	s, ok := h.sessions.Get(c.Param("game"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": manager.ErrNoSession.Error()})
		return
	}
	c.JSON(http.StatusOK, s.Info())
}

// GET /queues/:game/wait/:player
func (h *Handler) Wait(c *gin.Context) {
	s, ok := h.sessions.Get(c.Param("game"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": manager.ErrNoSession.Error()})
		return
	}
	player := c.Param("player")

	var (
		est   rotation.Estimate
		found bool
		text  string
	)
	s.Do(func(q *rotation.Queue) {
		est, found = q.WaitEstimate(player)
		text = q.Wait(player)
	})
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": text})
		return
	}
	c.JSON(http.StatusOK, gin.H{"estimate": est, "response": text})
}

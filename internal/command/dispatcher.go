// Package command turns chat-style text commands into rotation queue
// operations. Each command resolves one session and runs exactly one queue
// operation under that session's lock.
package command

import (
	"context"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/alexandermjones/overwatch-queue-discord-bot/internal/cutoff"
	"github.com/alexandermjones/overwatch-queue-discord-bot/internal/game/manager"
	"github.com/alexandermjones/overwatch-queue-discord-bot/internal/utils"
)

// ErrNotCommand is returned for text that does not start with the prefix.
var ErrNotCommand = errors.New("not a command")

type Request struct {
	Author string `json:"author" binding:"required"`
	Text   string `json:"text" binding:"required"`
}

type Response struct {
	Text string `json:"response"`
	// Game is the key of the session the command ran against, if any.
	Game string `json:"game,omitempty"`
	// Changed is set when the command mutated the queue.
	Changed bool `json:"changed"`
}

// Notifier is told about every queue change, e.g. to push status to
// websocket subscribers.
type Notifier interface {
	QueueChanged(info manager.Info, key string)
}

type handlerFunc func(ctx context.Context, author string, args []string) (Response, error)

type Dispatcher struct {
	sessions *manager.Manager
	cutoffs  *cutoff.Service
	prefix   string
	notifier Notifier
	handlers map[string]handlerFunc
}

func NewDispatcher(sessions *manager.Manager, cutoffs *cutoff.Service, prefix string) *Dispatcher {
	if prefix == "" {
		prefix = "!"
	}
	d := &Dispatcher{sessions: sessions, cutoffs: cutoffs, prefix: prefix}
	d.handlers = map[string]handlerFunc{
		"queue":  d.join,
		"join":   d.join,
		"leave":  d.leave,
		"quit":   d.leave,
		"next":   d.next,
		"rotate": d.next,
		"update": d.next,
		"status": d.status,
		"wait":   d.wait,
		"time":   d.wait,
		"add":    d.add,
		"kick":   d.kick,
		"remove": d.kick,
		"delay":  d.delay,
		"rejoin": d.rejoin,
		"undo":   d.undo,
		"game":   d.switchGame,
		"switch": d.switchGame,
		"end":    d.end,
		"help":   d.help,
	}
	return d
}

func (d *Dispatcher) SetNotifier(n Notifier) { d.notifier = n }

func (d *Dispatcher) Prefix() string { return d.prefix }

// Handle runs one command. Queue-level problems (unknown player, no queue,
// ...) come back as reply text; only infrastructure failures return an error.
func (d *Dispatcher) Handle(ctx context.Context, req Request) (Response, error) {
	text := strings.TrimSpace(req.Text)
	if !strings.HasPrefix(text, d.prefix) {
		return Response{}, ErrNotCommand
	}
	fields := strings.Fields(strings.TrimPrefix(text, d.prefix))
	if len(fields) == 0 {
		return Response{}, ErrNotCommand
	}
	name := strings.ToLower(fields[0])
	h, ok := d.handlers[name]
	if !ok {
		return Response{Text: invalidCommand(d.prefix)}, nil
	}

	resp, err := h(ctx, strings.TrimSpace(req.Author), fields[1:])
	if err != nil {
		utils.Log.Error("command failed", "cmd", name, "author", req.Author, "err", err)
		return Response{}, errors.Wrapf(err, "command %s", name)
	}
	utils.Log.Debug("command", "cmd", name, "author", req.Author, "game", resp.Game, "changed", resp.Changed)

	if resp.Changed && d.notifier != nil {
		if s, ok := d.sessions.Get(resp.Game); ok {
			d.notifier.QueueChanged(s.Info(), s.Key)
		}
	}
	return resp, nil
}

func arg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

// parseCutoff reads an optional positive player count; "" means not given.
func parseCutoff(s string) (int, bool) {
	if s == "" {
		return 0, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// resolve maps a session lookup failure to its reply text.
func (d *Dispatcher) resolve(game, author string) (*manager.Session, string) {
	s, err := d.sessions.Resolve(game, author)
	switch {
	case err == nil:
		return s, ""
	case errors.Is(err, manager.ErrAmbiguous):
		return nil, noGameParam
	default:
		return nil, noQueue(d.prefix)
	}
}

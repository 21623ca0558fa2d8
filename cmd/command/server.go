package command

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/alexandermjones/overwatch-queue-discord-bot/config"
	"github.com/alexandermjones/overwatch-queue-discord-bot/internal/api"
	cmdpkg "github.com/alexandermjones/overwatch-queue-discord-bot/internal/command"
	"github.com/alexandermjones/overwatch-queue-discord-bot/internal/utils"
	"github.com/alexandermjones/overwatch-queue-discord-bot/internal/websocket"
)

type Server struct{}

func (cmd Server) Command(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "run the HTTP and websocket server",
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmd.main(ctx, config.C)
		},
	}
}

func (cmd Server) main(ctx context.Context, cfg config.Config) error {
	svc, err := newServices(ctx, cfg)
	if err != nil {
		return err
	}
	defer svc.close()

	hub := websocket.NewHub()
	hub.OnIncoming = commandRelay(ctx, hub, svc.dispatcher)
	svc.dispatcher.SetNotifier(hub)
	go hub.Run()
	defer hub.Close()

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type"},
	}))

	api.NewHandler(svc.sessions, svc.dispatcher).Register(r)
	r.GET("/ws", websocket.ServeWS(hub))

	srv := &http.Server{Addr: cfg.Server.Port, Handler: r}
	errCh := make(chan error, 1)
	go func() {
		utils.Log.Info("server running", "addr", cfg.Server.Port, "storage", cfg.Storage.Driver)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "listen")
		}
		return nil
	case <-ctx.Done():
	}

	utils.Log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// commandRelay runs websocket "command" events through the dispatcher and
// replies to the sender only.
func commandRelay(ctx context.Context, hub *websocket.Hub, d *cmdpkg.Dispatcher) func(*websocket.Client, websocket.IncomingMessage) {
	return func(c *websocket.Client, msg websocket.IncomingMessage) {
		if msg.Event != websocket.EventCommand {
			hub.SendToClient(c.ID, websocket.OutgoingMessage{Event: websocket.EventError, Data: "unknown event " + msg.Event})
			return
		}
		text, _ := msg.Data.(string)
		resp, err := d.Handle(ctx, cmdpkg.Request{Author: c.Name, Text: text})
		switch {
		case errors.Is(err, cmdpkg.ErrNotCommand):
			hub.SendToClient(c.ID, websocket.OutgoingMessage{Event: websocket.EventError, Data: err.Error()})
		case err != nil:
			hub.SendToClient(c.ID, websocket.OutgoingMessage{Event: websocket.EventError, Data: "command failed"})
		default:
			if resp.Game != "" {
				c.Subscribe(resp.Game)
			}
			hub.SendToClient(c.ID, websocket.OutgoingMessage{Event: websocket.EventReply, Data: resp})
		}
	}
}

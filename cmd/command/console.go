package command

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/alexandermjones/overwatch-queue-discord-bot/config"
	cmdpkg "github.com/alexandermjones/overwatch-queue-discord-bot/internal/command"
)

// Console reads commands line by line, one author per session. A line of
// the form "name: !cmd" runs as that name instead.
type Console struct {
	In  io.Reader
	Out io.Writer
}

func (cmd Console) Command(ctx context.Context) *cobra.Command {
	var name string
	c := &cobra.Command{
		Use:   "console",
		Short: "type queue commands into a local session",
		RunE: func(_ *cobra.Command, _ []string) error {
			svc, err := newServices(ctx, config.C)
			if err != nil {
				return err
			}
			defer svc.close()
			return cmd.run(ctx, svc.dispatcher, name)
		},
	}
	c.Flags().StringVarP(&name, "name", "n", "console", "author name for typed commands")
	return c
}

func (cmd Console) run(ctx context.Context, d *cmdpkg.Dispatcher, name string) error {
	sc := bufio.NewScanner(cmd.In)
	for sc.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		author, text := name, strings.TrimSpace(sc.Text())
		if i := strings.Index(text, ":"); i > 0 && !strings.HasPrefix(text, d.Prefix()) {
			author, text = strings.TrimSpace(text[:i]), strings.TrimSpace(text[i+1:])
		}
		if text == "" {
			continue
		}

		resp, err := d.Handle(ctx, cmdpkg.Request{Author: author, Text: text})
		if errors.Is(err, cmdpkg.ErrNotCommand) {
			continue
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.Out, resp.Text)
	}
	return sc.Err()
}

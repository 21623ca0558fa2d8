package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/alexandermjones/overwatch-queue-discord-bot/cmd/command"
	"github.com/alexandermjones/overwatch-queue-discord-bot/config"
	"github.com/alexandermjones/overwatch-queue-discord-bot/internal/utils"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var cfgPath string
	root := &cobra.Command{
		Use:          "queuebot",
		Short:        "Rotation queue bot for game groups",
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if err := config.Load(cfgPath); err != nil {
				return err
			}
			utils.Init(config.C.Log.Level)
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config/config.yaml", "path to the yaml config file")

	root.AddCommand(
		command.Server{}.Command(ctx),
		command.Console{In: os.Stdin, Out: os.Stdout}.Command(ctx),
		command.Migrate{}.Command(ctx),
	)

	if err := root.ExecuteContext(ctx); err != nil {
		utils.Log.Fatal("command failed", "err", err)
	}
}

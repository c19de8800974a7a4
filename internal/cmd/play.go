package cmd

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Iron-Ham/whacaconsole/internal/config"
	"github.com/spf13/cobra"
)

var (
	playDuration time.Duration
	playNoBot    bool
	playServe    bool
	playSeed     uint64
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a headless game",
	Long: `Play a game in the terminal. A simulated player reacts to each field
using the bot settings from the config; notifications and highlights are
printed as they happen, followed by the final score.

Stop early with Ctrl+C.`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().DurationVarP(&playDuration, "duration", "d", 30*time.Second, "how long to play (0 plays until interrupted)")
	playCmd.Flags().BoolVar(&playNoBot, "no-bot", false, "disable the simulated player")
	playCmd.Flags().BoolVar(&playServe, "serve", false, "also stream the game over the websocket bridge")
	playCmd.Flags().Uint64Var(&playSeed, "seed", 0, "seed for target placement and bot behavior (0 is random)")
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	rt, err := newRuntime(cfg, runtimeOptions{
		out:       cmd.OutOrStdout(),
		withBot:   cfg.Bot.Enabled && !playNoBot,
		withServe: playServe,
		seed:      playSeed,
	})
	if err != nil {
		return err
	}
	defer rt.close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if playDuration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, playDuration)
		defer cancel()
	}

	params := sessionParams{autoStart: true}
	if playServe {
		ln, err := net.Listen("tcp", cfg.Server.Addr)
		if err != nil {
			return fmt.Errorf("failed to listen on %s: %w", cfg.Server.Addr, err)
		}
		params.listener = ln
	}

	watchConfig(rt)
	if err := runSession(ctx, rt, params); err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), rt.summary())
	return nil
}

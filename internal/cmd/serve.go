package cmd

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/Iron-Ham/whacaconsole/internal/bridge"
	"github.com/Iron-Ham/whacaconsole/internal/config"
	"github.com/spf13/cobra"
)

var (
	serveAddr      string
	serveWithBot   bool
	serveAutoStart bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the game over a websocket bridge",
	Long: `Serve the game to an external target surface.

Endpoints:
  GET  /ws     websocket carrying state-update and target-click envelopes
  GET  /state  current session snapshot as JSON
  POST /start  begin a session
  POST /stop   end the session

The session starts when a client sends a "started" state-update or calls
/start, unless --start is given.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
	serveCmd.Flags().BoolVar(&serveWithBot, "bot", false, "let the simulated player play alongside clients")
	serveCmd.Flags().BoolVar(&serveAutoStart, "start", false, "start a session immediately")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	rt, err := newRuntime(cfg, runtimeOptions{
		out:       cmd.OutOrStdout(),
		withBot:   serveWithBot,
		withServe: true,
	})
	if err != nil {
		return err
	}
	defer rt.close()

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	watchConfig(rt)
	return runSession(ctx, rt, sessionParams{
		autoStart: serveAutoStart,
		listener:  ln,
		onReady: func() {
			wsURL, err := bridge.WebsocketURL("http://" + ln.Addr().String())
			if err != nil {
				return
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Serving on http://%s (websocket %s)\n", ln.Addr(), wsURL)
		},
	})
}

package cmd

import (
	"fmt"
	"io"
	"math/rand/v2"
	"strings"

	"github.com/Iron-Ham/whacaconsole/internal/bot"
	"github.com/Iron-Ham/whacaconsole/internal/bridge"
	"github.com/Iron-Ham/whacaconsole/internal/config"
	"github.com/Iron-Ham/whacaconsole/internal/event"
	"github.com/Iron-Ham/whacaconsole/internal/game"
	"github.com/Iron-Ham/whacaconsole/internal/i18n"
	"github.com/Iron-Ham/whacaconsole/internal/logging"
	"github.com/Iron-Ham/whacaconsole/internal/schedule"
	"github.com/Iron-Ham/whacaconsole/internal/shell"
	"github.com/Iron-Ham/whacaconsole/internal/targets"
)

// runtime wires one game session: bus, controller, target generator and the
// optional bot and bridge.
type runtime struct {
	cfg     *config.Config
	logger  *logging.Logger
	bus     *event.Bus
	console *shell.Console
	ctl     *game.Controller
	gen     *targets.Generator
	bot     *bot.Bot
	bridge  *bridge.Server
}

type runtimeOptions struct {
	out       io.Writer
	sched     schedule.Scheduler
	withBot   bool
	withServe bool
	// seed makes target placement and bot behavior reproducible when non-zero.
	seed uint64
}

func newRuntime(cfg *config.Config, opts runtimeOptions) (*runtime, error) {
	logger, err := logging.NewLogger(cfg.Logging.Dir, cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	if opts.sched == nil {
		opts.sched = schedule.System{}
	}

	catalog := i18n.Detect()
	if cfg.Locale.Lang != "" {
		catalog = i18n.New(cfg.Locale.Lang)
	}

	rt := &runtime{
		cfg:     cfg,
		logger:  logger,
		bus:     event.NewBus(logger),
		console: shell.NewConsole(opts.out),
	}
	genOpts := []targets.Option{
		targets.WithCount(cfg.Game.TargetCount),
		targets.WithLogger(logger),
	}
	botOpts := []bot.Option{bot.WithLogger(logger)}
	if opts.seed != 0 {
		genOpts = append(genOpts, targets.WithRand(rand.New(rand.NewPCG(opts.seed, 1))))
		botOpts = append(botOpts, bot.WithRand(rand.New(rand.NewPCG(opts.seed, 2))))
	}
	rt.gen = targets.New(rt.bus, genOpts...)
	rt.ctl = game.New(rt.bus, rt.console, opts.sched,
		game.WithLogger(logger),
		game.WithTiming(timingFrom(cfg)),
		game.WithCatalog(catalog),
		game.WithSurfaces(cfg.Game.GameSurface, cfg.Game.WelcomeSurface))

	if opts.withBot {
		b, err := bot.New(rt.gen, opts.sched, botConfigFrom(cfg), botOpts...)
		if err != nil {
			rt.close()
			return nil, fmt.Errorf("invalid bot configuration: %w", err)
		}
		b.Attach()
		rt.bot = b
	}
	if opts.withServe {
		rt.bridge = bridge.New(rt.ctl, rt.bus,
			bridge.WithLogger(logger),
			bridge.WithMaxClients(cfg.Server.MaxClients))
	}
	return rt, nil
}

func timingFrom(cfg *config.Config) game.Timing {
	return game.Timing{
		CyclePeriod: cfg.Game.CyclePeriod(),
		Hold:        cfg.Game.Hold(),
		Highlight:   cfg.Game.Highlight(),
	}
}

func botConfigFrom(cfg *config.Config) bot.Config {
	return bot.Config{
		Accuracy:    cfg.Bot.Accuracy,
		MinReaction: cfg.Bot.MinReaction(),
		MaxReaction: cfg.Bot.MaxReaction(),
	}
}

// apply pushes a reloaded configuration into the running components. Only
// timing, field size, bot profile and client limit change live; the rest
// needs a restart.
func (rt *runtime) apply(cfg *config.Config) {
	rt.ctl.SetTiming(timingFrom(cfg))
	rt.gen.SetCount(cfg.Game.TargetCount)
	if rt.bot != nil {
		if err := rt.bot.SetConfig(botConfigFrom(cfg)); err != nil {
			rt.logger.Warn("bot configuration rejected", "error", err)
		}
	}
	if rt.bridge != nil {
		rt.bridge.SetMaxClients(cfg.Server.MaxClients)
	}
	rt.cfg = cfg
}

// summary renders the end-of-game report.
func (rt *runtime) summary() string {
	snap := rt.ctl.Snapshot()
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Final score: %d\n", snap.Score))
	sb.WriteString(fmt.Sprintf("  hits: %d  misses: %d  expired: %d  ignored: %d\n",
		snap.Stats.Hits, snap.Stats.Misses, snap.Stats.Expired, snap.Stats.Ignored))
	if rt.bot != nil {
		s := rt.bot.Stats()
		sb.WriteString(fmt.Sprintf("  bot reactions: %d (aimed %d, decoys %d, rejected %d)\n",
			s.Reactions, s.Aimed, s.Decoys, s.Rejected))
	}
	return sb.String()
}

func (rt *runtime) close() {
	if rt.bot != nil {
		rt.bot.Stop()
	}
	if rt.bridge != nil {
		rt.bridge.Stop()
	}
	rt.ctl.Close()
	rt.gen.Close()
	_ = rt.logger.Close()
}

package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/profile"
	"github.com/swarmloop/engine/internal/config"
	"github.com/swarmloop/engine/internal/core/timer"
	"github.com/swarmloop/engine/internal/data"
	"github.com/swarmloop/engine/internal/engine"
	"github.com/swarmloop/engine/internal/persist"
	"github.com/swarmloop/engine/internal/present/ebitenpresent"
	"github.com/swarmloop/engine/internal/present/headless"
	"github.com/swarmloop/engine/internal/render"
	"github.com/swarmloop/engine/internal/scripting"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Entities and frames carry no game state of their own; scripts keep theirs
// in Lua.
type (
	entityState struct{}
	gameData    struct{}
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

var printer = message.NewPrinter(language.English)

func printBanner(title string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m             swarmloop  v0.1.0             \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m      parallel sprite frame loop in Go     \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mwindow:\033[0m %s\n\n", title)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := printer.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main loop ──────────────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/swarmloop.toml"
	if p := os.Getenv("SWARMLOOP_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config %s: %w", cfgPath, err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	if stop := startProfile(cfg.Profile); stop != nil {
		defer stop()
	}

	printBanner(cfg.Window.Title)

	// 3. Load the scene
	printSection("scene")
	def, err := data.LoadScene(cfg.Scene.Path)
	if err != nil {
		return fmt.Errorf("load scene: %w", err)
	}
	if def.Capacity <= 0 {
		def.Capacity = cfg.Engine.PoolCapacity
	}
	seed := cfg.Scene.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	scene, err := data.EngineScene[entityState](def, rand.New(rand.NewPCG(seed, seed)))
	if err != nil {
		return err
	}
	printStat("capacity", def.Capacity)
	printStat("spawns", def.SpawnCount())
	printStat("animations", len(def.AnimationNames()))
	printStat("assets", len(def.Assets))
	fmt.Println()

	clusters := min(cfg.Engine.Clusters, def.Capacity)

	// 4. Observer
	var observer engine.Observer[entityState, gameData] = engine.ObserverFuncs[entityState, gameData]{}
	if cfg.Scripting.Enabled {
		lua := scripting.NewObserver[entityState, gameData](cfg.Scripting.Dir, log)
		defer lua.Close()
		observer = lua
		printOK("lua scripts from " + cfg.Scripting.Dir)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := []engine.RendererOption[entityState, gameData]{
		engine.WithLogger[entityState, gameData](log),
	}

	// 5. Optional persistence
	var (
		runs   *persist.RunRepo
		snaps  *persist.SnapshotRepo
		writer *persist.Writer
		runRow = persist.RunRow{
			Scene:     def.Name,
			Capacity:  def.Capacity,
			Clusters:  clusters,
			TargetFPS: cfg.Engine.TargetFPS,
		}
	)
	if cfg.Database.Enabled {
		printSection("database")
		dbCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		db, err := persist.NewDB(dbCtx, cfg.Database, log)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		printOK("PostgreSQL connected")

		version, err := persist.RunMigrations(dbCtx, db.Pool)
		if err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		printOK(fmt.Sprintf("migrations applied (version %d)", version))

		runs = persist.NewRunRepo(db)
		snaps = persist.NewSnapshotRepo(db)
		if err := runs.Start(dbCtx, &runRow); err != nil {
			return fmt.Errorf("start run: %w", err)
		}
		printStat("run id", int(runRow.ID))
		fmt.Println()

		writer = persist.NewWriter(runRow.ID, snaps, persist.NewStatsRepo(db), 64, log)
		writer.Start(ctx)
		defer writer.Close()
		opts = append(opts,
			engine.WithSnapshotSink[entityState, gameData](writer),
			engine.WithTimerOptions[entityState, gameData](timer.WithSampleSink(writer.Sample)),
		)
	}

	// 6. Presenter and frame loop
	engCfg := engine.Config{
		Clusters:       clusters,
		MaxWorkers:     cfg.Engine.MaxWorkers,
		BarrierTimeout: cfg.Engine.BarrierTimeout,
		Screen:         render.NewScreen(uint32(cfg.Window.Width), uint32(cfg.Window.Height)),
	}
	if writer != nil && cfg.Database.SnapshotInterval > 0 {
		engCfg.SnapshotEvery = uint64(cfg.Database.SnapshotInterval)
	}

	printSection("ready")
	printReady(fmt.Sprintf("%d clusters on %d workers", clusters, cfg.Engine.MaxWorkers))
	printReady(fmt.Sprintf("target %d fps (seed %d)", cfg.Engine.TargetFPS, seed))
	fmt.Println()

	var stats engine.Stats
	if cfg.Window.Headless {
		p := headless.New(cfg.Window.HeadlessFrames, log)
		r := engine.NewRenderer[entityState, gameData](p, engCfg, opts...)
		if err := r.Play(ctx, scene, cfg.Engine.TargetFPS, observer); err != nil {
			return err
		}
		stats = r.Stats()
	} else {
		p := ebitenpresent.New(cfg.Window.Title, cfg.Window.Width, cfg.Window.Height, log)
		r := engine.NewRenderer[entityState, gameData](p, engCfg, opts...)
		played := make(chan error, 1)
		go func() {
			played <- r.Play(ctx, scene, cfg.Engine.TargetFPS, observer)
			p.Finish()
		}()
		if err := p.Run(); err != nil {
			log.Error("window", zap.Error(err))
		}
		stop()
		if err := <-played; err != nil {
			return err
		}
		stats = r.Stats()
	}

	// 7. Record the run
	if writer != nil {
		writer.Close()
		finCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := runs.Finish(finCtx, runRow.ID, persist.RunTotals{
			Frames:   stats.Frames,
			Lagged:   stats.Lagged,
			Overruns: stats.Overruns,
			Rejected: stats.Rejected,
		}); err != nil {
			log.Error("finish run", zap.Int64("run", runRow.ID), zap.Error(err))
		}
		logDigests(finCtx, snaps, runRow.ID, log)
		log.Info("snapshots written",
			zap.Int64("saved", writer.Saved()),
			zap.Int64("dropped", writer.Dropped()),
			zap.Int64("failed", writer.Failed()),
		)
	}

	log.Info("stopped",
		zap.String("frames", printer.Sprintf("%d", stats.Frames)),
		zap.Uint64("lagged", stats.Lagged),
		zap.Uint64("overruns", stats.Overruns),
		zap.Uint64("rejected", stats.Rejected),
	)
	return nil
}

// logDigests logs the digest of the last snapshot of the run.
func logDigests(ctx context.Context, snaps *persist.SnapshotRepo, runID int64, log *zap.Logger) {
	digests, err := snaps.Digests(ctx, runID)
	if err != nil {
		log.Error("read snapshot digests", zap.Error(err))
		return
	}
	var last uint64
	for frame := range digests {
		last = max(last, frame)
	}
	if d, ok := digests[last]; ok {
		log.Info("final snapshot",
			zap.Int("snapshots", len(digests)),
			zap.Uint64("frame", last),
			zap.String("blake2b", hex.EncodeToString(d)),
		)
	}
}

// startProfile starts the configured profiler and returns its stop func.
func startProfile(cfg config.ProfileConfig) func() {
	var mode func(*profile.Profile)
	switch cfg.Mode {
	case "cpu":
		mode = profile.CPUProfile
	case "mem":
		mode = profile.MemProfile
	case "block":
		mode = profile.BlockProfile
	case "mutex":
		mode = profile.MutexProfile
	case "trace":
		mode = profile.TraceProfile
	default:
		return nil
	}
	return profile.Start(mode, profile.ProfilePath(cfg.Path), profile.NoShutdownHook).Stop
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}

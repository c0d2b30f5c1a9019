package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/solanharrison/stickman-fps-server/internal/config"
	"github.com/solanharrison/stickman-fps-server/internal/core/event"
	coresys "github.com/solanharrison/stickman-fps-server/internal/core/system"
	"github.com/solanharrison/stickman-fps-server/internal/data"
	"github.com/solanharrison/stickman-fps-server/internal/handler"
	gonet "github.com/solanharrison/stickman-fps-server/internal/net"
	"github.com/solanharrison/stickman-fps-server/internal/net/packet"
	"github.com/solanharrison/stickman-fps-server/internal/net/protocol"
	"github.com/solanharrison/stickman-fps-server/internal/persist"
	"github.com/solanharrison/stickman-fps-server/internal/scripting"
	"github.com/solanharrison/stickman-fps-server/internal/system"
	"github.com/solanharrison/stickman-fps-server/internal/world"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(serverName string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m          stickman arena server            \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mserver:\033[0m %s\n\n", serverName)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main server logic ─────────────────────────────────────────────

func run() error {
	// 1. Config
	cfgPath := "config/server.toml"
	if p := os.Getenv("STICKMAN_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Server.Name)

	// 3. Arena rules and scripts
	printSection("arena")
	tuning, err := data.LoadArenaTuning(cfg.Arena.TuningPath)
	if err != nil {
		return fmt.Errorf("arena tuning: %w", err)
	}
	worldState := world.NewState(tuning)
	printOK(fmt.Sprintf("arena %gx%g, damage %d, tick %s", tuning.Width, tuning.Height, tuning.Damage, cfg.Network.TickRate))

	luaEngine, err := scripting.NewEngine(cfg.Scripting.Dir, log)
	if err != nil {
		return fmt.Errorf("scripting: %w", err)
	}
	defer luaEngine.Close()
	if fn := luaEngine.DamageFunc(); fn != nil {
		worldState.SetDamageFunc(fn)
		printOK("lua damage hook loaded")
	}

	bus := event.NewBus()
	system.LogPresence(bus, worldState, log)

	// 4. Optional kill log
	var killLog *system.KillLogSystem
	if cfg.Database.DSN != "" {
		printSection("database")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		db, err := persist.NewDB(ctx, cfg.Database, log)
		if err != nil {
			cancel()
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		err = persist.RunMigrations(ctx, db.Pool)
		cancel()
		if err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		printOK("PostgreSQL connected, migrations applied")
		killLog = system.NewKillLogSystem(bus, persist.NewKillRepo(db), cfg.Database.FlushInterval, log)
	}
	fmt.Println()

	// 5. Transport
	codec, err := protocol.NewCodec(cfg.Network.Codec)
	if err != nil {
		return fmt.Errorf("codec: %w", err)
	}
	deps := &handler.Deps{
		World: worldState,
		Codec: codec,
		Bus:   bus,
		Log:   log,
	}
	pktReg := packet.NewRegistry(log)
	handler.RegisterAll(pktReg, deps)

	netServer := gonet.NewServer(cfg.Network, codec, pktReg, handler.SessionHooks{Deps: deps}, log)
	if err := netServer.Listen(); err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Network.Addr(), err)
	}
	serveErr := make(chan error, 1)
	go func() { serveErr <- netServer.Serve() }()

	// 6. Systems
	runner := coresys.NewRunner(log)
	runner.Register(system.NewEventDispatchSystem(bus))
	runner.Register(system.NewSimulationSystem(worldState, bus, log))
	runner.Register(system.NewOutputSystem(worldState, codec, netServer.Sessions(), log))
	if killLog != nil {
		runner.Register(killLog)
	}

	printReady(fmt.Sprintf("listening on %s (codec %s)", netServer.Addr(), codec.Name()))
	log.Info("server started",
		zap.String("addr", netServer.Addr().String()),
		zap.String("codec", codec.Name()),
		zap.Duration("tick", cfg.Network.TickRate),
	)

	// 7. Game loop until signal or a dead listener
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loopDone := make(chan struct{})
	go func() {
		system.Loop(ctx, runner, cfg.Network.TickRate)
		close(loopDone)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-serveErr:
		if err != nil {
			runErr = fmt.Errorf("serve: %w", err)
		}
		stop()
	}
	<-loopDone

	// 8. Shutdown
	shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := netServer.Shutdown(shutCtx); err != nil {
		log.Warn("network shutdown", zap.Error(err))
	}
	// deliver events raised by the final tick and the disconnects above
	bus.SwapBuffers()
	bus.DispatchAll()
	if killLog != nil {
		killLog.Stop()
	}
	log.Info("server stopped", zap.Duration("uptime", time.Since(time.Unix(cfg.Server.StartTime, 0)).Round(time.Second)))
	return runErr
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

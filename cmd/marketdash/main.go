package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"marketdash/internal/adapter/analyzer"
	"marketdash/internal/adapter/cache"
	"marketdash/internal/adapter/generator"
	"marketdash/internal/adapter/handler"
	"marketdash/internal/adapter/storage"
	"marketdash/internal/adapter/stream"
	"marketdash/internal/application/service"
	"marketdash/internal/application/usecase"
	"marketdash/internal/concurrency/fanin"
	"marketdash/internal/concurrency/worker"
	"marketdash/internal/domain/model"
	"marketdash/internal/domain/port"
	"marketdash/internal/infrastructure/config"
	"marketdash/internal/infrastructure/logger"
	"marketdash/internal/infrastructure/server"
)

var (
	portFlag   = flag.Int("port", 0, "Port number")
	configFlag = flag.String("config", "configs/config.yaml", "Path to config file")
	helpFlag   = flag.Bool("help", false, "Show help")
)

type App struct {
	config      *config.Config
	logger      *slog.Logger
	server      *server.Server
	modeService *service.ModeService
	frames      chan model.StreamFrame
	sources     []port.StreamPort
	cancel      context.CancelFunc
	mu          sync.RWMutex
}

func main() {
	flag.Parse()

	if *helpFlag {
		printUsage()
		os.Exit(0)
	}

	_ = godotenv.Load(".env")

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if *portFlag != 0 {
		cfg.Server.Port = *portFlag
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	log.Info("starting marketdash", "version", "1.0.0")

	postgresAdapter, err := storage.NewPostgresAdapter(cfg.PostgresDSN())
	if err != nil {
		log.Error("failed to initialize postgres", "error", err)
		os.Exit(1)
	}
	defer postgresAdapter.Close()

	if err := postgresAdapter.InitSchema(context.Background()); err != nil {
		log.Error("failed to initialize schema", "error", err)
		os.Exit(1)
	}

	redisAdapter, err := cache.NewRedisAdapter(
		cfg.RedisAddr(),
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.TTL,
	)
	if err != nil {
		log.Error("failed to initialize redis", "error", err)
		os.Exit(1)
	}
	defer redisAdapter.Close()

	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	persistCh := make(chan []model.Opportunity, 64)
	persistPool := worker.NewPool(cfg.Workers.Persist, postgresAdapter, log)
	waitPersist := persistPool.Start(rootCtx, persistCh)

	modeService := service.NewModeService(log)
	aggregationService := service.NewAggregationService(redisAdapter, log, persistCh)
	marketUseCase := usecase.NewMarketUseCase(redisAdapter, postgresAdapter)
	analyzerClient := analyzer.NewClient(cfg.Analyzer.BaseURL, cfg.Analyzer.Timeout, log)

	app := &App{
		config:      cfg,
		logger:      log,
		modeService: modeService,
		frames:      make(chan model.StreamFrame, 1),
	}

	marketHandler := handler.NewMarketHandler(marketUseCase, log)
	opportunityHandler := handler.NewOpportunityHandler(marketUseCase, log)
	analyzerHandler := handler.NewAnalyzerHandler(analyzerClient, log)
	modeHandler := handler.NewModeHandler(modeService, app.switchMode, log)
	healthHandler := handler.NewHealthHandler(postgresAdapter, redisAdapter, app.activeSources, log)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /market/views", marketHandler.GetViews)
	mux.HandleFunc("GET /market/views/", marketHandler.GetView)
	mux.HandleFunc("GET /market/coincap", marketHandler.GetCoinCap)
	mux.HandleFunc("GET /market/summary", marketHandler.GetSummary)
	mux.HandleFunc("GET /opportunities", opportunityHandler.GetLatest)
	mux.HandleFunc("GET /opportunities/history", opportunityHandler.GetHistory)
	mux.HandleFunc("GET /analyzer/status", analyzerHandler.Status)
	mux.HandleFunc("POST /analyzer/pause", analyzerHandler.Pause)
	mux.HandleFunc("POST /analyzer/resume", analyzerHandler.Resume)
	mux.HandleFunc("POST /mode/test", modeHandler.SwitchToTest)
	mux.HandleFunc("POST /mode/live", modeHandler.SwitchToLive)
	mux.HandleFunc("GET /health", healthHandler.Check)

	srv := server.New(cfg.Server.Port, mux, cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, log)
	app.server = srv

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Единственный потребитель фреймов: все источники, включая переподключённые,
	// пишут в app.frames, поэтому ProcessFrame никогда не вызывается конкурентно.
	go aggregationService.Run(rootCtx, app.frames)

	ctx, cancel := context.WithCancel(rootCtx)
	app.cancel = cancel

	if err := app.startFrameProcessing(ctx); err != nil {
		log.Error("failed to start frame processing", "error", err)
		os.Exit(1)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("shutting down gracefully")
	app.shutdown()

	// Воркеры останавливаются по отмене контекста; канал не закрывается,
	// чтобы дорабатывающий ProcessFrame не отправил в закрытый канал.
	rootCancel()
	waitPersist()
}

func (a *App) startFrameProcessing(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	var sources []port.StreamPort

	if a.modeService.GetCurrentMode() == model.LiveMode {
		for _, sc := range a.config.Streams {
			if !sc.Enabled {
				continue
			}
			src := stream.NewSocketSource(sc.Name, sc.URL, sc.UserID, sc.OpportunitiesLimit, a.logger)
			sources = append(sources, src)
		}
	} else {
		gen := generator.NewTestGenerator("test-generator", a.config.TradingPairs, a.logger)
		sources = append(sources, gen)
	}

	var frameChannels []<-chan model.StreamFrame

	for _, src := range sources {
		if err := src.Connect(ctx); err != nil {
			a.logger.Error("failed to connect", "source", src.Name(), "error", err)
			continue
		}

		frameCh, errCh := src.ReadFrames(ctx)
		frameChannels = append(frameChannels, frameCh)

		go func(src port.StreamPort, errCh <-chan error) {
			for err := range errCh {
				a.logger.Error("stream error", "source", src.Name(), "error", err)
				a.reconnectSource(ctx, src)
			}
		}(src, errCh)
	}

	if len(frameChannels) == 0 {
		return fmt.Errorf("no stream sources connected")
	}

	a.sources = sources

	mergedCh := fanin.FanIn(frameChannels...)
	go a.forwardFrames(ctx, mergedCh)

	a.logger.Info("frame processing started", "sources", len(sources))
	return nil
}

// forwardFrames переливает фреймы источника в общий канал обработки; сами
// фреймы потребляет единственная горутина AggregationService.Run.
func (a *App) forwardFrames(ctx context.Context, in <-chan model.StreamFrame) {
	for frame := range in {
		select {
		case a.frames <- frame:
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) activeSources() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	names := make([]string, 0, len(a.sources))
	for _, src := range a.sources {
		names = append(names, src.Name())
	}
	return names
}

func (a *App) reconnectSource(ctx context.Context, src port.StreamPort) {
	backoff := time.Second
	maxBackoff := 30 * time.Second

	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
			a.logger.Info("attempting to reconnect", "source", src.Name())
			if err := src.Connect(ctx); err == nil {
				a.logger.Info("reconnected successfully", "source", src.Name())

				frameCh, errCh := src.ReadFrames(ctx)
				go a.forwardFrames(ctx, frameCh)

				go func() {
					for err := range errCh {
						a.logger.Error("stream error after reconnect", "source", src.Name(), "error", err)
						a.reconnectSource(ctx, src)
					}
				}()
				return
			}

			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
		}
	}
}

func (a *App) switchMode(ctx context.Context, newMode model.DataMode) error {
	a.mu.Lock()
	a.logger.Info("switching mode", "from", a.modeService.GetCurrentMode(), "to", newMode)

	if a.cancel != nil {
		a.cancel()
	}

	for _, src := range a.sources {
		if err := src.Close(); err != nil {
			a.logger.Error("failed to close source", "source", src.Name(), "error", err)
		}
	}
	a.sources = nil

	if err := a.modeService.SwitchMode(ctx, newMode); err != nil {
		a.mu.Unlock()
		return err
	}

	newCtx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.mu.Unlock()

	time.Sleep(500 * time.Millisecond)

	return a.startFrameProcessing(newCtx)
}

func (a *App) shutdown() {
	if a.cancel != nil {
		a.cancel()
	}

	for _, src := range a.sources {
		if err := src.Close(); err != nil {
			a.logger.Error("failed to close source", "source", src.Name(), "error", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("shutdown error", "error", err)
	}

	a.logger.Info("shutdown complete")
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  marketdash [--port <N>] [--config <path>]")
	fmt.Println("  marketdash --help")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --port N        Port number")
	fmt.Println("  --config path   Path to YAML config (default configs/config.yaml)")
}

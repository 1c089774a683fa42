package cli

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"brainy-quiz-service/internal/app"
	"brainy-quiz-service/internal/config"
	"brainy-quiz-service/internal/content"
	"brainy-quiz-service/internal/infra/memory"
	"brainy-quiz-service/internal/infra/postgres"
	redisinfra "brainy-quiz-service/internal/infra/redis"
	transport "brainy-quiz-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz engine server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)

	var repo app.QuizRepository
	if cfg.Postgres.URL != "" {
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
		db := bun.NewDB(sqldb, pgdialect.New())
		defer db.Close()
		repo = postgres.NewQuizRepository(db)
	} else {
		memRepo := memory.NewQuizRepository()
		if err := seedMemoryRepository(ctx, memRepo, cfg); err != nil {
			return err
		}
		repo = memRepo
	}

	contentTTL := config.TTLDuration(cfg.Content.TTL, 10*time.Minute)
	source := app.NewRepositoryContentSource(repo)
	var contentProvider app.ContentProvider
	if redisClient != nil {
		contentProvider = redisinfra.NewContentCache(redisClient, source, contentTTL)
	} else {
		contentProvider = memory.NewContentProvider(source, contentTTL)
	}

	var sessions app.SessionStore = memory.NewSessionStore()
	if redisClient != nil {
		sessions = redisinfra.NewSessionStore(redisClient, sessions, redisTTL)
	}

	idleTTL := config.TTLDuration(cfg.Session.IdleTTL, 30*time.Minute)
	game := app.NewGameService(repo, contentProvider, sessions, idleTTL)
	defer game.Close()
	stats := app.NewStatsService(repo)

	wsHandler := transport.NewGameWSHandler(game)
	statsHandler := transport.NewStatsHandler(stats)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	statsHandler.Register(mux)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quiz engine on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// seedMemoryRepository fills an in-memory repository with content at
// startup. Skipped when questions already exist so tests can pre-seed.
func seedMemoryRepository(ctx context.Context, repo *memory.QuizRepository, cfg config.Config) error {
	count, err := repo.CountQuestions(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	pack, err := loadPack(cfg)
	if err != nil {
		return err
	}
	return seedRepository(ctx, repo, pack)
}

func seedRepository(ctx context.Context, repo app.QuizRepository, pack content.Pack) error {
	for _, stage := range pack.Stages {
		if _, err := repo.CreateStage(ctx, stage); err != nil {
			return err
		}
	}
	for _, question := range pack.Questions {
		if _, err := repo.CreateQuestion(ctx, question); err != nil {
			return err
		}
	}
	log.Printf("loaded %d stages and %d questions", len(pack.Stages), len(pack.Questions))
	return nil
}

package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/gokatarajesh/trivia-api/internal/config"
	"github.com/gokatarajesh/trivia-api/internal/db/repository"
	sqlcgen "github.com/gokatarajesh/trivia-api/internal/db/sqlc"
	"github.com/gokatarajesh/trivia-api/internal/importer"
	"github.com/gokatarajesh/trivia-api/internal/logging"
)

func main() {
	var (
		amount     = flag.Int("amount", 10, "Number of questions to fetch (1-50)")
		source     = flag.Int("source-category", 0, "OpenTDB category id (0 for any)")
		target     = flag.Int("category", 0, "Local category id to store questions under")
		difficulty = flag.String("difficulty", "", "OpenTDB difficulty filter: easy, medium or hard")
	)
	flag.Parse()

	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load("configs/.env")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLogger := logging.New("trivia-importer", "development")
		bootLogger.Fatal().Err(err).Msg("failed to load config")
	}
	logger := logging.New(cfg.Name+"-importer", cfg.Env)

	if *target <= 0 {
		logger.Fatal().Msg("-category is required")
	}

	pool, err := pgxpool.New(ctx, cfg.Postgres.DSN())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()

	queries := sqlcgen.New(pool)
	im := importer.New(
		importer.NewOpenTDBClient(cfg.Importer.OpenTDBBaseURL, &http.Client{Timeout: cfg.Importer.Timeout}),
		repository.NewCategoryRepository(queries),
		repository.NewQuestionRepository(queries),
		logger,
	)

	res, err := im.Run(ctx, importer.Request{
		Amount:         *amount,
		SourceCategory: *source,
		TargetCategory: int32(*target),
		Difficulty:     *difficulty,
	})
	if err != nil {
		logger.Error().Err(err).Int("inserted", res.Inserted).Msg("import failed")
		pool.Close()
		os.Exit(1)
	}
	logger.Info().Int("inserted", res.Inserted).Int("skipped", res.Skipped).Msg("done")
}

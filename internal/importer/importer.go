package importer

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/db/repository"
	sqlcgen "github.com/gokatarajesh/trivia-api/internal/db/sqlc"
)

// ErrUnknownCategory is returned when the local target category does not exist.
var ErrUnknownCategory = errors.New("unknown target category")

type questionSource interface {
	Fetch(ctx context.Context, p FetchParams) ([]OpenTDBQuestion, error)
}

// Request describes one import run.
type Request struct {
	Amount int
	// SourceCategory is the OpenTDB category id; 0 pulls from any category.
	SourceCategory int
	// TargetCategory is the local category the questions are stored under.
	TargetCategory int32
	Difficulty     string
}

// Result summarizes an import run.
type Result struct {
	Fetched  int
	Inserted int
	Skipped  int
}

// Importer copies OpenTDB questions into the local question table.
type Importer struct {
	source     questionSource
	categories *repository.CategoryRepository
	questions  *repository.QuestionRepository
	logger     zerolog.Logger
}

func New(source questionSource, categories *repository.CategoryRepository, questions *repository.QuestionRepository, logger zerolog.Logger) *Importer {
	return &Importer{
		source:     source,
		categories: categories,
		questions:  questions,
		logger:     logger.With().Str("component", "importer").Logger(),
	}
}

// Run fetches req.Amount questions and stores the ones not already present.
func (im *Importer) Run(ctx context.Context, req Request) (Result, error) {
	if req.Amount <= 0 || req.Amount > 50 {
		return Result{}, fmt.Errorf("amount must be between 1 and 50, got %d", req.Amount)
	}
	if _, err := im.categories.Get(ctx, req.TargetCategory); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Result{}, fmt.Errorf("%w: %d", ErrUnknownCategory, req.TargetCategory)
		}
		return Result{}, fmt.Errorf("lookup category %d: %w", req.TargetCategory, err)
	}

	fetched, err := im.source.Fetch(ctx, FetchParams{
		Amount:     req.Amount,
		Category:   req.SourceCategory,
		Difficulty: req.Difficulty,
	})
	if err != nil {
		return Result{}, fmt.Errorf("fetch questions: %w", err)
	}

	res := Result{Fetched: len(fetched)}
	for _, q := range fetched {
		text := strings.TrimSpace(html.UnescapeString(q.Question))
		answer := strings.TrimSpace(html.UnescapeString(q.CorrectAnswer))
		if text == "" || answer == "" {
			res.Skipped++
			continue
		}

		exists, err := im.questions.Exists(ctx, text)
		if err != nil {
			return res, fmt.Errorf("check existing question: %w", err)
		}
		if exists {
			im.logger.Debug().Str("question", text).Msg("skipping duplicate")
			res.Skipped++
			continue
		}

		row, err := im.questions.Insert(ctx, sqlcgen.InsertQuestionParams{
			Question:   text,
			Answer:     answer,
			Category:   req.TargetCategory,
			Difficulty: MapDifficulty(q.Difficulty),
		})
		if err != nil {
			return res, fmt.Errorf("insert question: %w", err)
		}
		im.logger.Debug().Int32("question_id", row.ID).Msg("question imported")
		res.Inserted++
	}

	im.logger.Info().
		Int("fetched", res.Fetched).
		Int("inserted", res.Inserted).
		Int("skipped", res.Skipped).
		Int32("category", req.TargetCategory).
		Msg("import finished")
	return res, nil
}

// MapDifficulty converts OpenTDB's three levels onto the 1..5 scale.
func MapDifficulty(level string) int32 {
	switch strings.ToLower(level) {
	case "easy":
		return 1
	case "hard":
		return 5
	default:
		return 3
	}
}

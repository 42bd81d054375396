package trivia

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/gokatarajesh/trivia-api/internal/db/repository"
	sqlcgen "github.com/gokatarajesh/trivia-api/internal/db/sqlc"
	"github.com/gokatarajesh/trivia-api/internal/logging"
	httperrors "github.com/gokatarajesh/trivia-api/pkg/http/errors"
)

const defaultQuestionsPerPage = 10

// Service implements the trivia operations on top of the category and question repositories.
type Service struct {
	categories *repository.CategoryRepository
	questions  *repository.QuestionRepository
	cache      CategoryCache
	perPage    int
}

type ServiceOptions struct {
	QuestionsPerPage int
}

// NewService wires the repositories. cache may be nil, in which case categories are always read
// from the database.
func NewService(categories *repository.CategoryRepository, questions *repository.QuestionRepository, cache CategoryCache, opts ServiceOptions) *Service {
	if opts.QuestionsPerPage <= 0 {
		opts.QuestionsPerPage = defaultQuestionsPerPage
	}
	return &Service{
		categories: categories,
		questions:  questions,
		cache:      cache,
		perPage:    opts.QuestionsPerPage,
	}
}

// ListCategories returns every category keyed by id.
func (s *Service) ListCategories(ctx context.Context) (map[int]string, error) {
	logger := logging.FromContext(ctx)
	if s.cache != nil {
		cached, err := s.cache.Get(ctx)
		if err != nil {
			logger.Warn().Err(err).Msg("category cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	rows, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	categories := make(map[int]string, len(rows))
	for _, row := range rows {
		categories[int(row.ID)] = row.Type
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, categories); err != nil {
			logger.Warn().Err(err).Msg("category cache write failed")
		}
	}
	return categories, nil
}

// ListQuestions returns one page of all questions. Pages start at 1; smaller values are clamped.
func (s *Service) ListQuestions(ctx context.Context, page int) (QuestionPage, error) {
	total, err := s.questions.Count(ctx)
	if err != nil {
		return QuestionPage{}, fmt.Errorf("count questions: %w", err)
	}

	questions := []Question{}
	if limit, offset, ok := s.window(page); ok {
		rows, err := s.questions.List(ctx, limit, offset)
		if err != nil {
			return QuestionPage{}, fmt.Errorf("list questions: %w", err)
		}
		questions = toQuestions(rows)
	}

	categories, err := s.ListCategories(ctx)
	if err != nil {
		return QuestionPage{}, err
	}

	return QuestionPage{
		Questions:      questions,
		TotalQuestions: total,
		Categories:     categories,
	}, nil
}

// CreateQuestion validates and stores a new question.
func (s *Service) CreateQuestion(ctx context.Context, in NewQuestion) (Question, error) {
	text := strings.TrimSpace(in.Question)
	answer := strings.TrimSpace(in.Answer)
	if text == "" {
		return Question{}, invalid(httperrors.ReasonMissingField, "question is required")
	}
	if answer == "" {
		return Question{}, invalid(httperrors.ReasonMissingField, "answer is required")
	}
	if in.Difficulty < MinDifficulty || in.Difficulty > MaxDifficulty {
		return Question{}, invalid(httperrors.ReasonInvalidDifficulty,
			"difficulty must be between %d and %d, got %d", MinDifficulty, MaxDifficulty, in.Difficulty)
	}

	categoryID, ok := toInt32(in.Category)
	if !ok {
		return Question{}, invalid(httperrors.ReasonInvalidCategory, "category %d does not exist", in.Category)
	}
	if _, err := s.categories.Get(ctx, categoryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Question{}, invalid(httperrors.ReasonInvalidCategory, "category %d does not exist", in.Category)
		}
		return Question{}, fmt.Errorf("lookup category %d: %w", in.Category, err)
	}

	row, err := s.questions.Insert(ctx, sqlcgen.InsertQuestionParams{
		Question:   text,
		Answer:     answer,
		Category:   categoryID,
		Difficulty: int32(in.Difficulty),
	})
	if err != nil {
		// the category can disappear between the lookup and the insert
		if errors.Is(err, repository.ErrInvalidReference) {
			return Question{}, invalid(httperrors.ReasonInvalidCategory, "category %d does not exist", in.Category)
		}
		return Question{}, fmt.Errorf("insert question: %w", err)
	}

	logger := logging.FromContext(ctx)
	logger.Info().Int32("question_id", row.ID).Int32("category", row.Category).Msg("question created")
	return toQuestion(row), nil
}

// DeleteQuestion removes a question by id.
func (s *Service) DeleteQuestion(ctx context.Context, id int) error {
	qid, ok := toInt32(id)
	if !ok {
		return invalid(httperrors.ReasonQuestionNotFound, "question %d does not exist", id)
	}
	if err := s.questions.Delete(ctx, qid); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return invalid(httperrors.ReasonQuestionNotFound, "question %d does not exist", id)
		}
		return fmt.Errorf("delete question %d: %w", id, err)
	}
	logger := logging.FromContext(ctx)
	logger.Info().Int("question_id", id).Msg("question deleted")
	return nil
}

// SearchQuestions returns every question whose text contains term, ignoring case.
func (s *Service) SearchQuestions(ctx context.Context, term string) (QuestionPage, error) {
	rows, err := s.questions.Search(ctx, term)
	if err != nil {
		return QuestionPage{}, fmt.Errorf("search questions: %w", err)
	}
	questions := toQuestions(rows)
	return QuestionPage{
		Questions:      questions,
		TotalQuestions: int64(len(questions)),
	}, nil
}

// QuestionsByCategory returns one page of the questions in a category.
func (s *Service) QuestionsByCategory(ctx context.Context, categoryID, page int) (QuestionPage, error) {
	cid, ok := toInt32(categoryID)
	if !ok {
		return QuestionPage{}, invalid(httperrors.ReasonInvalidCategory, "category %d does not exist", categoryID)
	}
	category, err := s.categories.Get(ctx, cid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return QuestionPage{}, invalid(httperrors.ReasonInvalidCategory, "category %d does not exist", categoryID)
		}
		return QuestionPage{}, fmt.Errorf("lookup category %d: %w", categoryID, err)
	}

	total, err := s.questions.CountByCategory(ctx, cid)
	if err != nil {
		return QuestionPage{}, fmt.Errorf("count category questions: %w", err)
	}

	questions := []Question{}
	if limit, offset, ok := s.window(page); ok {
		rows, err := s.questions.ListByCategory(ctx, cid, limit, offset)
		if err != nil {
			return QuestionPage{}, fmt.Errorf("list category questions: %w", err)
		}
		questions = toQuestions(rows)
	}

	current := category.Type
	return QuestionPage{
		Questions:       questions,
		TotalQuestions:  total,
		CurrentCategory: &current,
	}, nil
}

// PlayQuiz picks one random question of the requested category that is not in
// PreviousQuestions. An unknown category is not a validation failure: the lookup error is
// returned as-is and surfaces as an internal error.
func (s *Service) PlayQuiz(ctx context.Context, req PlayRequest) (PlayResult, error) {
	categoryID := int32(AllCategories)
	if req.QuizCategory.ID != AllCategories {
		cid, ok := toInt32(req.QuizCategory.ID)
		if !ok {
			return PlayResult{}, fmt.Errorf("lookup quiz category %d: %w", req.QuizCategory.ID, repository.ErrNotFound)
		}
		if _, err := s.categories.Get(ctx, cid); err != nil {
			return PlayResult{}, fmt.Errorf("lookup quiz category %d: %w", req.QuizCategory.ID, err)
		}
		categoryID = cid
	}

	exclude := make([]int32, 0, len(req.PreviousQuestions))
	for _, id := range req.PreviousQuestions {
		// ids outside int32 can never match a stored row
		if qid, ok := toInt32(id); ok {
			exclude = append(exclude, qid)
		}
	}

	row, err := s.questions.PickRandom(ctx, categoryID, exclude)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return PlayResult{}, nil
		}
		return PlayResult{}, fmt.Errorf("pick quiz question: %w", err)
	}
	q := toQuestion(row)
	return PlayResult{Question: &q}, nil
}

// window converts a 1-based page into LIMIT/OFFSET. ok is false when the offset
// cannot be represented, which can only mean the page is past the end.
func (s *Service) window(page int) (limit, offset int32, ok bool) {
	if page < 1 {
		page = 1
	}
	if int64(page-1) > math.MaxInt32/int64(s.perPage) {
		return 0, 0, false
	}
	return int32(s.perPage), int32((page - 1) * s.perPage), true
}

func toInt32(v int) (int32, bool) {
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, false
	}
	return int32(v), true
}

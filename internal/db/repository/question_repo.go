package repository

import (
	"context"
	"strings"

	sqlcgen "github.com/gokatarajesh/trivia-api/internal/db/sqlc"
)

type questionStore interface {
	CountQuestions(ctx context.Context) (int64, error)
	ListQuestions(ctx context.Context, arg sqlcgen.ListQuestionsParams) ([]sqlcgen.Question, error)
	GetQuestion(ctx context.Context, id int32) (sqlcgen.Question, error)
	InsertQuestion(ctx context.Context, arg sqlcgen.InsertQuestionParams) (sqlcgen.Question, error)
	DeleteQuestion(ctx context.Context, id int32) (int64, error)
	SearchQuestions(ctx context.Context, pattern string) ([]sqlcgen.Question, error)
	QuestionTextExists(ctx context.Context, question string) (bool, error)
	CountQuestionsByCategory(ctx context.Context, category int32) (int64, error)
	ListQuestionsByCategory(ctx context.Context, arg sqlcgen.ListQuestionsByCategoryParams) ([]sqlcgen.Question, error)
	PickRandomQuestion(ctx context.Context, arg sqlcgen.PickRandomQuestionParams) (sqlcgen.Question, error)
}

// likeEscaper makes LIKE wildcards in user input match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// QuestionRepository wraps sqlc queries for question access.
type QuestionRepository struct {
	store questionStore
}

func NewQuestionRepository(store questionStore) *QuestionRepository {
	return &QuestionRepository{store: store}
}

// Count returns the number of stored questions.
func (r *QuestionRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.store.CountQuestions(ctx)
	return n, translate(err)
}

// List returns one page of questions ordered by id.
func (r *QuestionRepository) List(ctx context.Context, limit, offset int32) ([]sqlcgen.Question, error) {
	rows, err := r.store.ListQuestions(ctx, sqlcgen.ListQuestionsParams{Limit: limit, Offset: offset})
	return rows, translate(err)
}

func (r *QuestionRepository) Get(ctx context.Context, id int32) (sqlcgen.Question, error) {
	row, err := r.store.GetQuestion(ctx, id)
	return row, translate(err)
}

// Insert stores a question. A missing category surfaces as ErrInvalidReference.
func (r *QuestionRepository) Insert(ctx context.Context, params sqlcgen.InsertQuestionParams) (sqlcgen.Question, error) {
	row, err := r.store.InsertQuestion(ctx, params)
	return row, translate(err)
}

// Delete removes a question, returning ErrNotFound when no row matched.
func (r *QuestionRepository) Delete(ctx context.Context, id int32) error {
	affected, err := r.store.DeleteQuestion(ctx, id)
	if err != nil {
		return translate(err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Search matches term as a case-insensitive literal substring of the question text.
func (r *QuestionRepository) Search(ctx context.Context, term string) ([]sqlcgen.Question, error) {
	rows, err := r.store.SearchQuestions(ctx, likeEscaper.Replace(term))
	return rows, translate(err)
}

// Exists reports whether a question with the same text (ignoring case) is stored.
func (r *QuestionRepository) Exists(ctx context.Context, question string) (bool, error) {
	ok, err := r.store.QuestionTextExists(ctx, question)
	return ok, translate(err)
}

func (r *QuestionRepository) CountByCategory(ctx context.Context, category int32) (int64, error) {
	n, err := r.store.CountQuestionsByCategory(ctx, category)
	return n, translate(err)
}

func (r *QuestionRepository) ListByCategory(ctx context.Context, category, limit, offset int32) ([]sqlcgen.Question, error) {
	rows, err := r.store.ListQuestionsByCategory(ctx, sqlcgen.ListQuestionsByCategoryParams{
		Category: category,
		Limit:    limit,
		Offset:   offset,
	})
	return rows, translate(err)
}

// PickRandom selects one random question outside exclude. Category 0 matches every category.
// ErrNotFound means the candidates are exhausted.
func (r *QuestionRepository) PickRandom(ctx context.Context, category int32, exclude []int32) (sqlcgen.Question, error) {
	// a nil slice is sent as NULL, and NOT (id = ANY(NULL)) never holds
	if exclude == nil {
		exclude = []int32{}
	}
	row, err := r.store.PickRandomQuestion(ctx, sqlcgen.PickRandomQuestionParams{
		Category: category,
		Exclude:  exclude,
	})
	return row, translate(err)
}

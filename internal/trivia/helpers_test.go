package trivia

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/gokatarajesh/trivia-api/internal/db/repository"
	sqlcgen "github.com/gokatarajesh/trivia-api/internal/db/sqlc"
)

// fakeStore is an in-memory stand-in for the sqlc Queries used by both repositories.
type fakeStore struct {
	mu         sync.Mutex
	categories []sqlcgen.Category
	questions  []sqlcgen.Question
	nextID     int32
	err        error
	insertErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		categories: []sqlcgen.Category{
			{ID: 1, Type: "Science"},
			{ID: 2, Type: "Art"},
			{ID: 3, Type: "Geography"},
			{ID: 4, Type: "History"},
			{ID: 5, Type: "Entertainment"},
			{ID: 6, Type: "Sports"},
		},
		questions: []sqlcgen.Question{
			{ID: 2, Question: "What movie earned Tom Hanks his third straight Oscar nomination, in 1996?", Answer: "Apollo 13", Category: 5, Difficulty: 4},
			{ID: 4, Question: "What actor did author Anne Rice first denounce, then praise in the role of her beloved Lestat?", Answer: "Tom Cruise", Category: 5, Difficulty: 4},
			{ID: 5, Question: "Whose autobiography is entitled 'I Know Why the Caged Bird Sings'?", Answer: "Maya Angelou", Category: 4, Difficulty: 2},
			{ID: 9, Question: "What boxer's original name is Cassius Clay?", Answer: "Muhammad Ali", Category: 4, Difficulty: 1},
			{ID: 11, Question: "Which country won the first ever soccer World Cup in 1930?", Answer: "Uruguay", Category: 6, Difficulty: 4},
			{ID: 12, Question: "Who invented Peanut Butter?", Answer: "George Washington Carver", Category: 4, Difficulty: 2},
			{ID: 16, Question: "Which Dutch graphic artist, initials M C, was a creator of optical illusions?", Answer: "Escher", Category: 2, Difficulty: 1},
			{ID: 20, Question: "What is the heaviest organ in the human body?", Answer: "The Liver", Category: 1, Difficulty: 4},
		},
		nextID: 24,
	}
}

func newTestService(store *fakeStore, cache CategoryCache, perPage int) *Service {
	return NewService(
		repository.NewCategoryRepository(store),
		repository.NewQuestionRepository(store),
		cache,
		ServiceOptions{QuestionsPerPage: perPage},
	)
}

func (s *fakeStore) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *fakeStore) ListCategories(_ context.Context) ([]sqlcgen.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return append([]sqlcgen.Category(nil), s.categories...), nil
}

func (s *fakeStore) GetCategory(_ context.Context, id int32) (sqlcgen.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return sqlcgen.Category{}, s.err
	}
	for _, c := range s.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return sqlcgen.Category{}, pgx.ErrNoRows
}

func (s *fakeStore) CountQuestions(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	return int64(len(s.questions)), nil
}

func (s *fakeStore) ListQuestions(_ context.Context, arg sqlcgen.ListQuestionsParams) ([]sqlcgen.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return window(s.sorted(), arg.Limit, arg.Offset), nil
}

func (s *fakeStore) GetQuestion(_ context.Context, id int32) (sqlcgen.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, q := range s.questions {
		if q.ID == id {
			return q, nil
		}
	}
	return sqlcgen.Question{}, pgx.ErrNoRows
}

func (s *fakeStore) InsertQuestion(_ context.Context, arg sqlcgen.InsertQuestionParams) (sqlcgen.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return sqlcgen.Question{}, s.err
	}
	if s.insertErr != nil {
		return sqlcgen.Question{}, s.insertErr
	}
	found := false
	for _, c := range s.categories {
		found = found || c.ID == arg.Category
	}
	if !found {
		return sqlcgen.Question{}, &pgconn.PgError{Code: "23503", ConstraintName: "questions_category_fkey"}
	}
	q := sqlcgen.Question{
		ID:         s.nextID,
		Question:   arg.Question,
		Answer:     arg.Answer,
		Category:   arg.Category,
		Difficulty: arg.Difficulty,
	}
	s.nextID++
	s.questions = append(s.questions, q)
	return q, nil
}

func (s *fakeStore) DeleteQuestion(_ context.Context, id int32) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	for i, q := range s.questions {
		if q.ID == id {
			s.questions = append(s.questions[:i], s.questions[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

var likeUnescaper = strings.NewReplacer(`\\`, `\`, `\%`, `%`, `\_`, `_`)

func (s *fakeStore) SearchQuestions(_ context.Context, pattern string) ([]sqlcgen.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	needle := strings.ToLower(likeUnescaper.Replace(pattern))
	var out []sqlcgen.Question
	for _, q := range s.sorted() {
		if strings.Contains(strings.ToLower(q.Question), needle) {
			out = append(out, q)
		}
	}
	return out, nil
}

func (s *fakeStore) QuestionTextExists(_ context.Context, question string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, q := range s.questions {
		if strings.EqualFold(q.Question, question) {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) CountQuestionsByCategory(_ context.Context, category int32) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	return int64(len(s.inCategory(category))), nil
}

func (s *fakeStore) ListQuestionsByCategory(_ context.Context, arg sqlcgen.ListQuestionsByCategoryParams) ([]sqlcgen.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return window(s.inCategory(arg.Category), arg.Limit, arg.Offset), nil
}

// PickRandomQuestion returns the lowest eligible id so tests stay deterministic.
func (s *fakeStore) PickRandomQuestion(_ context.Context, arg sqlcgen.PickRandomQuestionParams) (sqlcgen.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return sqlcgen.Question{}, s.err
	}
	if arg.Exclude == nil {
		// mirrors Postgres: NOT (id = ANY(NULL)) is never true
		return sqlcgen.Question{}, pgx.ErrNoRows
	}
	excluded := make(map[int32]bool, len(arg.Exclude))
	for _, id := range arg.Exclude {
		excluded[id] = true
	}
	for _, q := range s.sorted() {
		if (arg.Category == 0 || q.Category == arg.Category) && !excluded[q.ID] {
			return q, nil
		}
	}
	return sqlcgen.Question{}, pgx.ErrNoRows
}

func (s *fakeStore) sorted() []sqlcgen.Question {
	out := append([]sqlcgen.Question(nil), s.questions...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *fakeStore) inCategory(category int32) []sqlcgen.Question {
	var out []sqlcgen.Question
	for _, q := range s.sorted() {
		if q.Category == category {
			out = append(out, q)
		}
	}
	return out
}

func window(rows []sqlcgen.Question, limit, offset int32) []sqlcgen.Question {
	if int(offset) >= len(rows) {
		return nil
	}
	end := int(offset) + int(limit)
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}

type memoryCache struct {
	mu     sync.Mutex
	value  map[int]string
	getErr error
	sets   int
}

func (c *memoryCache) Get(_ context.Context) (map[int]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.value, nil
}

func (c *memoryCache) Set(_ context.Context, categories map[int]string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = categories
	c.sets++
	return nil
}

package trivia

import sqlcgen "github.com/gokatarajesh/trivia-api/internal/db/sqlc"

// Difficulty bounds accepted for stored questions.
const (
	MinDifficulty = 1
	MaxDifficulty = 5
)

// AllCategories selects questions from every category when playing a quiz.
const AllCategories = 0

// Category is a grouping label for questions.
type Category struct {
	ID   int    `json:"id"`
	Type string `json:"type"`
}

// Question is a single trivia item as returned to clients.
type Question struct {
	ID         int    `json:"id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Category   int    `json:"category"`
	Difficulty int    `json:"difficulty"`
}

// NewQuestion carries the fields accepted when creating a question.
type NewQuestion struct {
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Category   int    `json:"category"`
	Difficulty int    `json:"difficulty"`
}

// QuestionPage is one listing of questions with its surrounding metadata.
type QuestionPage struct {
	Questions       []Question
	TotalQuestions  int64
	Categories      map[int]string
	CurrentCategory *string
}

// QuizCategory identifies the category a quiz is played in. ID 0 means all categories.
type QuizCategory struct {
	ID   int    `json:"id"`
	Type string `json:"type,omitempty"`
}

// PlayRequest asks for the next quiz question.
type PlayRequest struct {
	PreviousQuestions []int
	QuizCategory      QuizCategory
}

// PlayResult holds the selected question, or nil once the category is exhausted.
type PlayResult struct {
	Question *Question
}

func toQuestion(row sqlcgen.Question) Question {
	return Question{
		ID:         int(row.ID),
		Question:   row.Question,
		Answer:     row.Answer,
		Category:   int(row.Category),
		Difficulty: int(row.Difficulty),
	}
}

func toQuestions(rows []sqlcgen.Question) []Question {
	out := make([]Question, 0, len(rows))
	for _, row := range rows {
		out = append(out, toQuestion(row))
	}
	return out
}

package auth

// Permissions granted to editor tokens.
const (
	PermPostQuestions   = "post:questions"
	PermDeleteQuestions = "delete:questions"
)

// EditorPermissions is the full set minted by cmd/tokengen by default.
var EditorPermissions = []string{PermPostQuestions, PermDeleteQuestions}

package errors

// Reason codes carried next to the HTTP status in error responses.
const (
	// Request shape
	ReasonInvalidPayload = "invalid_payload"
	ReasonMissingField   = "missing_field"
	ReasonInvalidID      = "invalid_id"

	// Domain validation
	ReasonInvalidCategory   = "invalid_category"
	ReasonInvalidDifficulty = "invalid_difficulty"
	ReasonQuestionNotFound  = "question_not_found"

	// Authorization
	ReasonAuthenticationRequired = "authentication_required"
	ReasonInvalidToken           = "invalid_token"
	ReasonMissingPermission      = "missing_permission"

	// Routing
	ReasonNotFound         = "not_found"
	ReasonMethodNotAllowed = "method_not_allowed"

	// Server errors
	ReasonInternalError       = "internal_error"
	ReasonUpstreamUnavailable = "upstream_unavailable"
)

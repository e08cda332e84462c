package lifecycle

import "errors"

// ErrForbidden is returned when the acting user's role or team
// membership does not permit the operation. Handlers translate it into
// an HTTP 403 response; it is never downgraded to a different outcome.
var ErrForbidden = errors.New("forbidden")

// ErrInvalidTransition is returned when the target stage is not
// reachable from the request's current stage and is not the scrap
// escape hatch. Handlers translate it into an HTTP 400 response.
var ErrInvalidTransition = errors.New("invalid stage transition")

// ValidationError reports malformed or missing input with the field it
// concerns, e.g. a missing duration when moving to repaired or an
// assignee outside the request's team. Handlers translate it into an
// HTTP 400 response carrying the field name.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string { return e.Field + ": " + e.Reason }

package workflow

import "errors"

// ErrMissingContext means a mutation arrived before LoadIncident committed an
// incident context for the session.
var ErrMissingContext = errors.New("incident context not loaded")

// ErrOperationInFlight guards the one-respond-or-assign-at-a-time rule per
// assignment.
var ErrOperationInFlight = errors.New("operation already in flight for assignment")

// ErrNoSegment means Assign ran before a segment was committed for the
// loaded incident.
var ErrNoSegment = errors.New("assignment requires a resolved segment")

// ErrSelectionChanged means a mutation finished after the session had already
// moved to a different incident. Its result is discarded, not applied.
var ErrSelectionChanged = errors.New("selection changed while operation was in flight")

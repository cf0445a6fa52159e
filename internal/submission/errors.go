package submission

import "errors"

var (
	// ErrNoPendingDraft is returned when a conflict policy is chosen but no
	// autofill draft is waiting.
	ErrNoPendingDraft = errors.New("no pending autofill draft")

	// ErrUnknownStep is returned for step ids that are not in the catalog or
	// the plan, depending on the operation.
	ErrUnknownStep = errors.New("unknown step")

	// ErrEmptyStep is returned when a custom step has neither title nor
	// description.
	ErrEmptyStep = errors.New("custom step needs a title or description")

	// ErrIncomplete is returned by Submit when required fields are missing.
	ErrIncomplete = errors.New("submission incomplete")
)

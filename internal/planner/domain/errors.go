package domain

import "errors"

// Fatal planning errors. The engine wraps these with context via fmt.Errorf
// and %w; handlers map them to HTTP statuses with errors.Is.
var (
	// ErrValidation covers malformed requests: unknown commodity kinds,
	// empty ids, negative overrides, bad rid references.
	ErrValidation = errors.New("validation error")

	// ErrNoRecipeForTarget means a top-level target has no producing recipe
	// and no override.
	ErrNoRecipeForTarget = errors.New("no recipe for target")

	// ErrInvalidOverride means a recipe override names a recipe that does
	// not produce the demanded commodity.
	ErrInvalidOverride = errors.New("invalid recipe override")

	// ErrDegenerateRecipe means a selected recipe yields a zero or negative
	// per-machine rate for the demanded commodity.
	ErrDegenerateRecipe = errors.New("degenerate recipe")
)

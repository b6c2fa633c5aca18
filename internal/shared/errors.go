package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Album errors
	ErrSongNotFound    = fmt.Errorf("song not found")
	ErrStageNotFound   = fmt.Errorf("stage not found")
	ErrInvalidSnapshot = fmt.Errorf("invalid snapshot")
	ErrInvalidDeadline = fmt.Errorf("invalid deadline")
	ErrNotATerminal    = fmt.Errorf("not a terminal")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)

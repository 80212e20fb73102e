package squad

import "errors"

// Sentinel kinds for squad errors.
var (
	ErrUnknownWeakness = errors.New("unknown weakness label")
)

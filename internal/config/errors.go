package config

import "errors"

// ErrLoadConfig wraps file, dotenv and decoding failures; ErrInvalidConfig
// wraps Validate failures.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)

package config

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrInvalid = errors.New("invalid config")
	ErrLoad    = errors.New("load config failed")
)

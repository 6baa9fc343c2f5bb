package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig   = fmt.Errorf("configuration not found")
	ErrInvalidConfig   = fmt.Errorf("invalid configuration")
	ErrUnknownBackend  = fmt.Errorf("unknown storage backend")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")

	// Storage errors
	ErrNotFound    = fmt.Errorf("key not found")
	ErrPersistence = fmt.Errorf("persistence failed")
	ErrCorruptData = fmt.Errorf("stored value could not be decoded")

	// Lifecycle errors
	ErrMalformedVersion = fmt.Errorf("malformed version string")
	ErrRuleFailed       = fmt.Errorf("migration rule failed")
	ErrReinitialize     = fmt.Errorf("host reinitialization failed")
	ErrThrottled        = fmt.Errorf("reload throttled")
)

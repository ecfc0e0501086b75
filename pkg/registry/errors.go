package registry

import "errors"

// Sentinel errors for the kernel registry.
var (
	ErrNotFound       = errors.New("kernel not found")
	ErrAlreadyExists  = errors.New("kernel already registered")
	ErrInvalidName    = errors.New("invalid kernel name")
	ErrInvalidVersion = errors.New("invalid kernel version")
	ErrNilFunc        = errors.New("kernel has no implementation")
	ErrBadArguments   = errors.New("bad kernel arguments")
)

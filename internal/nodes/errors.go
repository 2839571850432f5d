package nodes

import "errors"

var (
	ErrNotFound        = errors.New("node not found")
	ErrDuplicate       = errors.New("node version already exists")
	ErrVersionRequired = errors.New("node uri must include a version")
)

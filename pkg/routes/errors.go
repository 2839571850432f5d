package routes

import "errors"

var (
	ErrNoReverseMatch = errors.New("no reverse match")
	ErrInvalidName    = errors.New("route name must be namespace:name")
)

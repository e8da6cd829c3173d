package service

import "errors"

// The error kinds the HTTP layer maps onto status codes. Services translate
// repo failures into exactly one of these; anything unrecognized is wrapped
// and reported as an internal failure, never swallowed.
var (
	ErrNotFound          = errors.New("not found")           // 404
	ErrInvalidRequest    = errors.New("invalid request")     // 400
	ErrInvalidTransition = errors.New("invalid transition")  // 422
	ErrConflict          = errors.New("conflict")            // 409
)

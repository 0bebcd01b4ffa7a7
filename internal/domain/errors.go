package domain

import "errors"

var (
	ErrToolMissing        = errors.New("pydoctest was not found")
	ErrInterpreterMissing = errors.New("selected interpreter does not exist")
	ErrMalformedReport    = errors.New("malformed validation report")
)

package services

import "errors"

var (
	ErrInvalidTransition = errors.New("operation not allowed in current checkout step")
	ErrUnknownMethod     = errors.New("unknown payment method")
	ErrInvalidPIN        = errors.New("invalid PIN")
)

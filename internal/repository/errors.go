package repository

import "errors"

var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyPaid   = errors.New("order already paid")
	ErrNotPaid       = errors.New("order not paid")
	ErrTableOccupied = errors.New("table already has an active order")
)

package strategy

import (
	"github.com/gofrs/uuid"
	"github.com/pkg/errors"
)

var (
	ErrNotFound = errors.New("not found")
	ErrExists   = errors.New("exists")

	ErrTransport       = errors.New("transport failure")
	ErrValidation      = errors.New("validation failure")
	ErrPartialDelivery = errors.New("partial delivery failure")
)

func NewRunID() uuid.UUID {
	return uuid.Must(uuid.NewV4())
}

package types

import (
	"net/http"

	"github.com/tansive/lexruntime/internal/common/apperrors"
)

var (
	// ErrInvalidArgument is the base of every client-side construction error.
	ErrInvalidArgument = apperrors.New("invalid argument").SetStatusCode(http.StatusBadRequest)
	// ErrDuplicateKey is returned by incremental map insertion when the key exists.
	ErrDuplicateKey = ErrInvalidArgument.New("duplicate key")
)

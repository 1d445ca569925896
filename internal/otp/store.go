package otp

import (
	"context"
	"io"

	"github.com/shandysiswandi/prescripto/internal/otp/entity"
)

// Store is the persistence contract every OTP store driver satisfies.
type Store interface {
	io.Closer
	Put(ctx context.Context, identifier string, e entity.Entry) error
	Get(ctx context.Context, identifier string) (*entity.Entry, error)
	Delete(ctx context.Context, identifier string) error
	CompareAndDelete(ctx context.Context, identifier, code string) (bool, error)
}

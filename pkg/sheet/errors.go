package sheet

import (
	"errors"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrSheetNotFound is returned when a sheet has no header row.
	ErrSheetNotFound = errors.New("sheet not found")

	// ErrNoHeaders is returned when a header row would be empty.
	ErrNoHeaders = errors.New("sheet must have at least one header")

	// ErrRowWidth is returned when a row does not match the header width.
	ErrRowWidth = errors.New("row width does not match headers")
)

// IsNotFound reports whether err means the requested sheet does not exist.
// redis.Nil is treated as not found as well.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrSheetNotFound) || errors.Is(err, redis.Nil)
}

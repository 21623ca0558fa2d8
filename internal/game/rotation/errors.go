package rotation

import "github.com/pkg/errors"

// Every rejected operation returns one of these (possibly wrapped with the
// participant name) and leaves the queue untouched.
var (
	ErrNotFound        = errors.New("participant not in queue")
	ErrAlreadyMember   = errors.New("participant already in queue")
	ErrAlreadyDelaying = errors.New("participant already delaying")
	ErrNotDelaying     = errors.New("participant not delaying")
	ErrInvalidName     = errors.New("invalid participant name")
	ErrInvalidCapacity = errors.New("capacity must be at least 1")
)

func notFound(name string) error {
	return errors.Wrapf(ErrNotFound, "participant %q", name)
}

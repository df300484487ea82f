package player

import "github.com/tauraamui/xerror"

var (
	// ErrConfiguration is matched by every preflight failure. No frame is
	// processed once it has been returned.
	ErrConfiguration = xerror.New("configuration error")
	// ErrProcessing is matched by a failure inside a tick. It ends the session.
	ErrProcessing     = xerror.New("processing error")
	ErrAlreadyStarted = xerror.New("playback session has already been started")
)

// kindError keeps the cause of a failure reachable with errors.Is/As while
// also matching its kind.
type kindError struct {
	kind error
	err  error
}

func withKind(kind, err error) error {
	return kindError{kind: kind, err: err}
}

func (e kindError) Error() string {
	return e.kind.Error() + ": " + e.err.Error()
}

func (e kindError) Unwrap() error {
	return e.err
}

func (e kindError) Is(target error) bool {
	return target == e.kind
}

package keepalive

import "errors"

var (
	// ErrNoFactory is returned by Render when a fresh instance is needed
	// but Options.Factory is nil.
	ErrNoFactory = errors.New("keepalive: no Factory provided")

	// ErrClosed is returned by Render after Close.
	ErrClosed = errors.New("keepalive: cache is closed")
)

// joinErrs returns nil, the single error unchanged, or errors.Join of all.
// Callers rely on a lone notifier error reaching them unwrapped.
func joinErrs(errs []error) error {
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return errors.Join(errs...)
	}
}

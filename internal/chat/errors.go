package chat

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/voltera/site-backend/internal/inference/engine"
	"github.com/voltera/site-backend/internal/platform/httpx"
)

// ErrBackendUnavailable matches (errors.Is) any failure to reach the model server.
var ErrBackendUnavailable = errors.New("language model backend unavailable")

var ErrEmptyMessage = errors.New("message is required")

type unavailableError struct {
	err error
}

func (e *unavailableError) Error() string {
	return fmt.Sprintf("%s: %v", ErrBackendUnavailable, e.err)
}

func (e *unavailableError) Unwrap() error { return e.err }

func (e *unavailableError) Is(target error) bool { return target == ErrBackendUnavailable }

// BackendError is a non-2xx reply from the model server.
type BackendError struct {
	StatusCode int
	Body       string
}

func (e *BackendError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("language model backend returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("language model backend returned status %d: %s", e.StatusCode, e.Body)
}

// classify maps an engine error onto the chat error taxonomy.
func classify(err error) error {
	if err == nil {
		return nil
	}
	// A status reply means the server was reached, whatever its body says.
	var he *engine.HTTPError
	if errors.As(err, &he) {
		return &BackendError{StatusCode: he.StatusCode, Body: truncateBody(he.Body, maxBodyBytes)}
	}
	if httpx.IsUnreachable(err) {
		return &unavailableError{err: err}
	}
	return fmt.Errorf("language model call failed: %w", err)
}

const maxBodyBytes = 2000

// truncateBody cuts s to at most n bytes without splitting a rune.
func truncateBody(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

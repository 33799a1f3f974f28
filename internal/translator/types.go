package translator

import (
	"context"
	"fmt"
	"net/http"
)

// Translator turns one piece of text into one translated string.
type Translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

// Func adapts a plain function to the Translator interface.
type Func func(ctx context.Context, text, sourceLang, targetLang string) (string, error)

func (f Func) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	return f(ctx, text, sourceLang, targetLang)
}

// ServiceError is a failure reported by a translation service. StatusCode is
// the HTTP status, Status the provider specific status name when available.
type ServiceError struct {
	Provider   string
	StatusCode int
	Status     string
	Message    string
}

func (e *ServiceError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("%s: %d %s: %s", e.Provider, e.StatusCode, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %d: %s", e.Provider, e.StatusCode, e.Message)
}

// Temporary reports whether retrying the same request can succeed:
// rate limiting, timeouts and server side errors.
func (e *ServiceError) Temporary() bool {
	switch {
	case e.StatusCode == http.StatusTooManyRequests,
		e.StatusCode == http.StatusRequestTimeout,
		e.StatusCode >= 500:
		return true
	default:
		return false
	}
}

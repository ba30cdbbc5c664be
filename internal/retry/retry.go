// internal/retry/retry.go
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Config defines retry behavior with linear backoff
type Config struct {
	MaxRetries int           // Extra attempts after the first one
	Step       time.Duration // Wait before attempt n+1 is Step*(n+1)

	// Wait blocks for d or until ctx is done. Nil means a real timer.
	Wait func(ctx context.Context, d time.Duration) error
}

// DefaultConfig returns the fetch policy: two retries, 1.2s linear step
func DefaultConfig() Config {
	return Config{
		MaxRetries: 2,
		Step:       1200 * time.Millisecond,
	}
}

// Attempts is the total number of calls Do will make
func (c Config) Attempts() int {
	if c.MaxRetries < 0 {
		return 1
	}
	return c.MaxRetries + 1
}

// Backoff returns how long to wait after the given zero-based attempt fails
func (c Config) Backoff(attempt int) time.Duration {
	return c.Step * time.Duration(attempt+1)
}

// ErrExhausted marks a Do call where every attempt ended in a status failure
var ErrExhausted = errors.New("exhausted attempts")

// ExhaustedError is returned when all attempts failed with StatusCoder errors
// and no transport error was ever seen
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("%v after %d attempts: %v", ErrExhausted, e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Last
}

func (e *ExhaustedError) Is(target error) bool {
	return target == ErrExhausted
}

// Do calls fn until it succeeds or the attempts run out.
//
// Errors implementing StatusCoder count as status failures; anything else is a
// transport failure. When attempts run out, the most recent transport error is
// returned as-is; with none seen, an *ExhaustedError wrapping the last status
// failure is returned. A done ctx stops the wait between attempts.
func Do(ctx context.Context, cfg Config, fn func(attempt int) error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	attempts := cfg.Attempts()
	var lastTransport, lastStatus error

	for attempt := 0; attempt < attempts; attempt++ {
		err := fn(attempt)
		if err == nil {
			if attempt > 0 {
				log.Debug().
					Int("attempts", attempt+1).
					Msg("Retry succeeded")
			}
			return nil
		}

		if IsStatusError(err) {
			lastStatus = err
		} else {
			lastTransport = err
		}

		if attempt == attempts-1 {
			break
		}

		backoff := cfg.Backoff(attempt)
		log.Debug().
			Int("attempt", attempt+1).
			Int("max_attempts", attempts).
			Dur("backoff", backoff).
			Err(err).
			Msg("Retrying after backoff")

		if err := cfg.wait(ctx, backoff); err != nil {
			return err
		}
	}

	if lastTransport != nil {
		log.Warn().
			Int("attempts", attempts).
			Err(lastTransport).
			Msg("Max retry attempts exceeded")
		return lastTransport
	}

	log.Warn().
		Int("attempts", attempts).
		Err(lastStatus).
		Msg("Max retry attempts exceeded")
	return &ExhaustedError{Attempts: attempts, Last: lastStatus}
}

func (c Config) wait(ctx context.Context, d time.Duration) error {
	if c.Wait != nil {
		return c.Wait(ctx, d)
	}
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsStatusError reports whether err carries an HTTP status code
func IsStatusError(err error) bool {
	var sc StatusCoder
	return errors.As(err, &sc)
}

// HTTPError represents an HTTP error with status code
type HTTPError struct {
	StatusCode int
	Status     string
	Message    string
}

// StatusCoder is an interface for errors that provide an HTTP status code
type StatusCoder interface {
	GetStatusCode() int
}

func (e HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("HTTP %d: %s - %s", e.StatusCode, e.Status, e.Message)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Status)
}

func (e HTTPError) GetStatusCode() int {
	return e.StatusCode
}

// NewHTTPError creates a new HTTPError
func NewHTTPError(statusCode int, status string, message string) HTTPError {
	return HTTPError{
		StatusCode: statusCode,
		Status:     status,
		Message:    message,
	}
}

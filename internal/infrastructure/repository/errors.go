package repository

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/google/go-github/v55/github"
	"github.com/niklvrr/FossaOnboarding/internal/infrastructure/fossa"
	"google.golang.org/api/googleapi"
)

var (
	ErrNotFound      = errors.New("api: not found")
	ErrAlreadyExists = errors.New("api: conflict")
	ErrInvalidInput  = errors.New("api: request rejected")
	ErrTransient     = errors.New("api: temporarily unavailable")
	ErrUpstream      = errors.New("api: call failed")
)

// handleAPIError маппит ошибки внешних API на ошибки репозитория,
// исходная ошибка остается в цепочке
func handleAPIError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTransient, err)
	}

	status := 0
	var (
		ghErr     *github.ErrorResponse
		rateErr   *github.RateLimitError
		abuseErr  *github.AbuseRateLimitError
		googleErr *googleapi.Error
		netErr    net.Error
	)
	switch {
	case errors.As(err, &rateErr), errors.As(err, &abuseErr):
		return fmt.Errorf("%w: %w", ErrTransient, err)
	case errors.As(err, &ghErr):
		if ghErr.Response != nil {
			status = ghErr.Response.StatusCode
		}
	case errors.As(err, &googleErr):
		status = googleErr.Code
	case fossa.StatusCode(err) != 0:
		status = fossa.StatusCode(err)
	case fossa.IsTransient(err), errors.As(err, &netErr):
		return fmt.Errorf("%w: %w", ErrTransient, err)
	}

	switch {
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case status == http.StatusConflict:
		return fmt.Errorf("%w: %w", ErrAlreadyExists, err)
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	case status == http.StatusTooManyRequests, status >= 500:
		return fmt.Errorf("%w: %w", ErrTransient, err)
	}
	return fmt.Errorf("%w: %w", ErrUpstream, err)
}

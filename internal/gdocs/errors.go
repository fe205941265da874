package gdocs

import (
	"context"
	"errors"
	"net/http"

	"google.golang.org/api/googleapi"

	"github.com/draftwell/grantdocs/internal/apierr"
)

// mapGoogleErr folds Google API failures into the build error taxonomy:
// auth rejections are the caller's problem, rate limits and server errors
// are retryable, everything else passes through.
func mapGoogleErr(err error) error {
	if err == nil {
		return nil
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch {
		case gerr.Code == http.StatusUnauthorized || gerr.Code == http.StatusForbidden:
			return apierr.UpstreamAuth(err)
		case gerr.Code == http.StatusTooManyRequests || gerr.Code >= 500:
			return apierr.Transient(err)
		}
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apierr.Transient(err)
	}
	return err
}

func isRateLimited(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == http.StatusTooManyRequests
}

func isTransient(err error) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == http.StatusTooManyRequests || gerr.Code >= 500
	}
	return errors.Is(err, context.DeadlineExceeded)
}

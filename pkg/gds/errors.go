package gds

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"travelbooking/pkg/apperror"
)

// ProviderError is a non-2xx answer from the provider.
type ProviderError struct {
	Status int
	Issues []Issue
}

type Issue struct {
	Status int          `json:"status"`
	Code   int          `json:"code"`
	Title  string       `json:"title"`
	Detail string       `json:"detail"`
	Source *IssueSource `json:"source,omitempty"`
}

type IssueSource struct {
	Pointer   string `json:"pointer,omitempty"`
	Parameter string `json:"parameter,omitempty"`
	Example   string `json:"example,omitempty"`
}

type errorResponse struct {
	Errors []Issue `json:"errors"`
}

func newProviderError(status int, body []byte) *ProviderError {
	pe := &ProviderError{Status: status}
	var resp errorResponse
	if err := json.Unmarshal(body, &resp); err == nil {
		pe.Issues = resp.Errors
	}
	return pe
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("gds: provider returned %d: %s", e.Status, e.Summary())
}

// Summary joins the issues as "title: detail" for user-facing messages.
func (e *ProviderError) Summary() string {
	if len(e.Issues) == 0 {
		return http.StatusText(e.Status)
	}
	parts := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		switch {
		case is.Title != "" && is.Detail != "":
			parts = append(parts, is.Title+": "+is.Detail)
		case is.Detail != "":
			parts = append(parts, is.Detail)
		default:
			parts = append(parts, is.Title)
		}
	}
	return strings.Join(parts, "; ")
}

// IsClientError reports a 4xx, i.e. the provider understood and refused.
func (e *ProviderError) IsClientError() bool {
	return e.Status >= 400 && e.Status < 500
}

func upstreamError(message string, err error) error {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return apperror.Upstream(message).
			WithDetail(pe.Summary()).
			WithProviderStatus(pe.Status).
			WithErr(err)
	}
	return apperror.Upstream(message).WithErr(err)
}

func bookingError(err error) error {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return apperror.Booking("flight order was rejected").
			WithDetail(pe.Summary()).
			WithProviderStatus(pe.Status).
			WithErr(err)
	}
	return apperror.Booking("flight order could not be placed").WithErr(err)
}

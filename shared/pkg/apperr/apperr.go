// Package apperr holds the error kinds shared by every layer of the marketplace.
// Components wrap these sentinels; the HTTP boundary maps them with errors.Is.
package apperr

import "errors"

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrInvalid      = errors.New("invalid request")
	ErrUpstream     = errors.New("upstream error")
)

type Kind string

const (
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindNotFound     Kind = "not_found"
	KindInvalid      Kind = "invalid"
	KindUpstream     Kind = "upstream"
	KindInternal     Kind = "internal"
)

// KindOf classifies err. Anything not wrapping a known sentinel is internal.
func KindOf(err error) Kind {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalid):
		return KindInvalid
	case errors.Is(err, ErrUpstream):
		return KindUpstream
	default:
		return KindInternal
	}
}

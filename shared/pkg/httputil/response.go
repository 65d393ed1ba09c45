// Package httputil provides the JSON response helpers shared by the HTTP services.
package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"toolplanet/shared/pkg/apperr"
)

type ErrorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// JSONResponse writes a JSON response with the given status code.
func JSONResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError maps err to its kind and writes the generic envelope. Internal and
// upstream details stay in the request log.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	status, msg := StatusFor(kind)

	l := zerolog.Ctx(r.Context())
	switch kind {
	case apperr.KindInternal, apperr.KindUpstream:
		l.Error().Err(err).Str("kind", string(kind)).Msg("request failed")
	case apperr.KindInvalid:
		msg = err.Error()
		l.Debug().Err(err).Msg("request rejected")
	default:
		l.Debug().Err(err).Str("kind", string(kind)).Msg("request rejected")
	}

	JSONResponse(w, status, ErrorBody{Kind: string(kind), Message: msg})
}

func StatusFor(kind apperr.Kind) (int, string) {
	switch kind {
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized, "Unauthorized Access"
	case apperr.KindForbidden:
		return http.StatusForbidden, "Forbidden Access"
	case apperr.KindNotFound:
		return http.StatusNotFound, "Not Found"
	case apperr.KindInvalid:
		return http.StatusBadRequest, "Bad Request"
	case apperr.KindUpstream:
		return http.StatusBadGateway, "Payment processor unavailable"
	default:
		return http.StatusInternalServerError, "Internal Server Error"
	}
}

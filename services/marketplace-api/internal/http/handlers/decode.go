package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"toolplanet/services/marketplace-api/internal/repo"
	"toolplanet/shared/pkg/apperr"
)

const maxBodyBytes = 1 << 20

var errEmptyBody = fmt.Errorf("%w: request body is empty", apperr.ErrInvalid)

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		zerolog.Ctx(r.Context()).Debug().Err(err).Msg("decode request body")
		return decodeError(err)
	}
	return nil
}

// decodeError replaces decoder text with a fixed message naming the field.
func decodeError(err error) error {
	var (
		typeErr *json.UnmarshalTypeError
		sizeErr *http.MaxBytesError
	)
	switch {
	case errors.As(err, &sizeErr):
		return fmt.Errorf("%w: request body is too large", apperr.ErrInvalid)
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return fmt.Errorf("%w: %s has the wrong type", apperr.ErrInvalid, typeErr.Field)
	case errors.As(err, &typeErr):
		return fmt.Errorf("%w: request body must be a json object", apperr.ErrInvalid)
	default:
		return fmt.Errorf("%w: request body is not valid json", apperr.ErrInvalid)
	}
}

// decodeDoc reads a JSON object body. An empty body yields an empty document
// when allowEmpty is set.
func decodeDoc(w http.ResponseWriter, r *http.Request, allowEmpty bool) (repo.Document, error) {
	var d repo.Document
	err := decodeJSON(w, r, &d)
	if errors.Is(err, errEmptyBody) && allowEmpty {
		return repo.Document{}, nil
	}
	if err != nil {
		return nil, err
	}
	if d == nil {
		d = repo.Document{}
	}
	return d, nil
}

// stringField returns d[key] as sent. A present non-string value is invalid.
func stringField(d repo.Document, key string) (string, error) {
	v, ok := d[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string", apperr.ErrInvalid, key)
	}
	return s, nil
}

type infoResp struct {
	Success bool   `json:"success"`
	Info    string `json:"info"`
	ID      string `json:"id,omitempty"`
}

type deleteResp struct {
	DeletedCount int `json:"deletedCount"`
}

func boolCount(b bool) int {
	if b {
		return 1
	}
	return 0
}

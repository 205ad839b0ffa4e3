// Package shared holds helpers common to the JSON feature handlers.
package shared

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dalemusser/converge/internal/app/system/limits"
)

// DecodeJSON decodes a single JSON object from r's body into v. Unknown
// fields are rejected so misspelled keys do not silently become "".
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, limits.MaxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}

// Persister saves registry state after a successful mutation.
type Persister interface {
	Persist(ctx context.Context) error
}

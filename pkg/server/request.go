package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

// decodeObject parses a JSON object keeping its keys exactly as sent.
// Struct decoding folds case, so "Data" would match a "data" tag.
// A JSON null body decodes to an empty object.
func decodeObject(body []byte) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// stringField returns nil when key is absent or null, and an error when its
// value is not a string.
func stringField(fields map[string]json.RawMessage, key string) (*string, error) {
	raw, ok := fields[key]
	if !ok {
		return nil, nil
	}
	var v *string
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func limitBody(w http.ResponseWriter, r *http.Request, maxBytes int64) io.Reader {
	if maxBytes > 0 {
		return http.MaxBytesReader(w, r.Body, maxBytes)
	}
	return r.Body
}

// TODO: use errors.As with *http.MaxBytesError once go.mod moves to Go 1.19.
func isBodyTooLarge(err error) bool {
	return err != nil && strings.Contains(err.Error(), "request body too large")
}

func readError(ctx context.Context, w http.ResponseWriter, err error) result {
	if isBodyTooLarge(err) {
		return requestError(ctx, w, err, msgBodyTooLarge, http.StatusRequestEntityTooLarge, "")
	}
	return requestError(ctx, w, err, "error reading request", http.StatusBadRequest, "")
}

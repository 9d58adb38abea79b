package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// decodePartial decodes a partial-update body into v while rejecting
// explicit JSON nulls. With pointer-field update structs an absent key and
// a literal null both decode to nil, so the raw body is inspected to tell
// them apart: clearing a field is not a supported operation.
func decodePartial(r *http.Request, v any) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return fmt.Errorf("reading body: %w", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return fmt.Errorf("invalid JSON body")
	}
	if len(raw) == 0 {
		return fmt.Errorf("no fields to update")
	}
	for key, value := range raw {
		if bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
			return fmt.Errorf("field %q may not be null", key)
		}
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}

package todd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// ParseJSONRequest unmarshals the body of req into v, which must be a pointer
// to a type. Will return an error such that errors.Is(err, ErrBodyUnmarshal)
// returns true if there is a problem decoding the JSON itself.
func ParseJSONRequest(req *http.Request, v interface{}) error {
	contentType := req.Header.Get("Content-Type")

	if strings.ToLower(contentType) != "application/json" {
		return fmt.Errorf("request content-type is not application/json")
	}

	bodyData, err := io.ReadAll(req.Body)
	if err != nil {
		return fmt.Errorf("could not read request body: %w", err)
	}
	defer func() {
		req.Body.Close()
		req.Body = io.NopCloser(bytes.NewBuffer(bodyData))
	}()

	err = json.Unmarshal(bodyData, v)
	if err != nil {
		return NewError("malformed JSON in request", err, ErrBodyUnmarshal)
	}

	return nil
}

// RequireIDParam gets the ID of the main entity being referenced in the URI
// and returns it. It panics if the key is not there.
func RequireIDParam(r *http.Request) string {
	id := chi.URLParam(r, "id")
	if id == "" {
		panic("id parameter does not exist")
	}
	return id
}

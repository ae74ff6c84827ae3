package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// nameRequest is the body accepted by house and room create/update.
type nameRequest struct {
	Name *string `json:"name"`
}

// deviceRequest is the body accepted by device create/update.
// The type travels as "device" on input and "device_type" on output.
type deviceRequest struct {
	Name   *string `json:"name"`
	State  *bool   `json:"state"`
	Device *string `json:"device"`
}

// errMissingName is returned when a body lacks a usable name.
var errMissingName = errors.New("name is required")

// decodeJSON reads a JSON request body into v.
func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("request body exceeds %d bytes", maxErr.Limit)
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// decodeName decodes a nameRequest and returns its name.
// A missing or null name is an error; an empty string is accepted.
func decodeName(r *http.Request) (string, error) {
	var req nameRequest
	if err := decodeJSON(r, &req); err != nil {
		return "", err
	}
	if req.Name == nil {
		return "", errMissingName
	}
	return *req.Name, nil
}

// pathID parses a positive integer URL parameter.
func pathID(r *http.Request, param string) (int64, error) {
	raw := chi.URLParam(r, param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", param, raw)
	}
	return id, nil
}

// pathIDs parses several positive integer URL parameters in order, writing a
// 400 response and returning false on the first failure.
func pathIDs(w http.ResponseWriter, r *http.Request, params ...string) ([]int64, bool) {
	ids := make([]int64, len(params))
	for i, p := range params {
		id, err := pathID(r, p)
		if err != nil {
			writeBadRequest(w, err.Error())
			return nil, false
		}
		ids[i] = id
	}
	return ids, true
}

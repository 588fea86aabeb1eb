package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/pvesely/webplanner/internal/store"
)

// maxBodyBytes caps request bodies; the API only ever carries small
// JSON documents.
const maxBodyBytes = 64 << 10

// writeJSON serializes v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("server: encoding response: %v", err)
	}
}

// writeError emits the uniform {"error": ...} failure shape.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeStoreError maps store failures onto the API's status codes:
// missing or foreign rows read as 404, everything else is a logged
// generic 500 so no internal detail leaks to the caller.
func writeStoreError(w http.ResponseWriter, err error, notFoundMsg, genericMsg string) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, notFoundMsg)
		return
	}
	log.Printf("server: %v", err)
	writeError(w, http.StatusInternalServerError, genericMsg)
}

// decodeJSON parses a size-limited JSON request body into v.
func decodeJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decoding request body: %w", err)
	}
	return nil
}

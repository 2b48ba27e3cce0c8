package middleware

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// writeJSONError writes the standard failure envelope. Middleware rejections
// use the same shape as controller responses so clients only ever parse one
// format.
func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   message,
	})
}

// writeRateLimitError writes a 429 with a Retry-After hint in whole seconds
func writeRateLimitError(w http.ResponseWriter, retryAfterSeconds int) {
	if retryAfterSeconds > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds))
	}
	writeJSONError(w, http.StatusTooManyRequests, "Too many requests. Please try again later.")
}

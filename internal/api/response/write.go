package response

import (
	"bytes"
	"encoding/json"
	"net/http"
)

// JSON writes data as a JSON response. Live views (games, stats) must not
// be cached, so every response is marked no-store. Encoding happens before
// the header is written so a failure still produces a clean 500.
func JSON(w http.ResponseWriter, status int, data any) {
	var body bytes.Buffer
	if data != nil {
		if err := json.NewEncoder(&body).Encode(data); err != nil {
			http.Error(w, `{"code":"INTERNAL_ERROR","message":"failed to encode response"}`, http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write(body.Bytes())
}

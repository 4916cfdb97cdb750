// Package response writes API payloads as JSON or, when the client asks for it, MessagePack.
package response

import (
	"bytes"
	"encoding/json"
	"mime"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	ContentTypeJSON    = "application/json"
	ContentTypeMsgpack = "application/msgpack"
)

// WantsMsgpack reports whether the Accept header prefers MessagePack
func WantsMsgpack(r *http.Request) bool {
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		switch mediaType {
		case ContentTypeMsgpack, "application/x-msgpack":
			return true
		}
	}
	return false
}

// Write encodes data with the negotiated codec. MessagePack reuses the json struct tags.
func Write(w http.ResponseWriter, r *http.Request, status int, data interface{}, log zerolog.Logger) {
	if r != nil && WantsMsgpack(r) {
		var buf bytes.Buffer
		enc := msgpack.NewEncoder(&buf)
		enc.SetCustomStructTag("json")
		if err := enc.Encode(data); err != nil {
			log.Error().Err(err).Msg("Failed to encode msgpack response")
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", ContentTypeMsgpack)
		w.WriteHeader(status)
		if _, err := w.Write(buf.Bytes()); err != nil {
			log.Error().Err(err).Msg("Failed to write msgpack response")
		}
		return
	}

	w.Header().Set("Content-Type", ContentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// Error writes {"error": message} with status
func Error(w http.ResponseWriter, r *http.Request, status int, message string, log zerolog.Logger) {
	Write(w, r, status, map[string]string{"error": message}, log)
}

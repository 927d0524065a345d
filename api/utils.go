package api

import (
	"encoding/json"
	"log"
	"net/http"
)

// RespondWithError sends the standard failure envelope.
func RespondWithError(w http.ResponseWriter, status int, errMsg string) {
	log.Println("[ERROR]", errMsg)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error":   errMsg,
	})
}

// RespondWithResult sends a consistent JSON response for success or error
func RespondWithResult(w http.ResponseWriter, success bool, errMsg string) {
	w.Header().Set("Content-Type", "application/json")
	if success {
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
	} else {
		log.Println("[ERROR] RespondWithResult", errMsg)
		json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "error": errMsg})
	}
}

// RespondWithPayload sends a success envelope with arbitrary named payload
// fields merged in ("entries", "masters", "rows", ...).
func RespondWithPayload(w http.ResponseWriter, success bool, errMsg string, payload map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	resp := map[string]interface{}{"success": success}
	if !success && errMsg != "" {
		resp["error"] = errMsg
		log.Println("[ERROR] RespondWithPayload", errMsg)
	}
	for k, v := range payload {
		resp[k] = v
	}
	json.NewEncoder(w).Encode(resp)
}

// LogInfo logs an informational message (wrapper for consistent logging)
func LogInfo(msg string, args ...interface{}) {
	if len(args) > 0 {
		log.Printf("[INFO] "+msg, args...)
	} else {
		log.Println("[INFO]", msg)
	}
}

// LogError logs an error message (wrapper for consistent logging)
func LogError(msg string, args ...interface{}) {
	if len(args) > 0 {
		log.Printf("[ERROR] "+msg, args...)
	} else {
		log.Println("[ERROR]", msg)
	}
}

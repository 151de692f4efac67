package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/Adnanskuyy/ShoppingABTest/scene"
)

var errWaitNotAllowed = errors.New("wait is not an action")

type actionRequest struct {
	Product string `json:"product"`
}

type stateResponse struct {
	State scene.Snapshot `json:"state"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func hasJSONBody(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

func isJSONRequest(r *http.Request) bool {
	return hasJSONBody(r) || strings.Contains(r.Header.Get("Accept"), "application/json")
}

func actionProduct(r *http.Request) (string, error) {
	if hasJSONBody(r) {
		if r.ContentLength == 0 {
			return "", nil
		}
		var request actionRequest
		decoder := json.NewDecoder(r.Body)
		if err := decoder.Decode(&request); err != nil {
			return "", fmt.Errorf("decode request: %w", err)
		}
		return request.Product, nil
	}
	if err := r.ParseForm(); err != nil {
		return "", fmt.Errorf("invalid form input")
	}
	return r.FormValue("product"), nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeJSONError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

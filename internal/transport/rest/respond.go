// Package rest содержит chi-роутеры и DTO четырёх HTTP-сервисов:
// шлюза, сервиса заказов, сервиса валидации и платёжного сервиса.
// Ошибки отдаются единым конвертом {"error", "message", "detail"}.
package rest

import (
	"encoding/json"
	"net/http"
)

type errorResponse struct {
	Error   string      `json:"error"`
	Message string      `json:"message,omitempty"`
	Detail  interface{} `json:"detail,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: code, Message: message})
}

func writeErrorDetail(w http.ResponseWriter, status int, code, message string, detail interface{}) {
	writeJSON(w, status, errorResponse{Error: code, Message: message, Detail: detail})
}

func decodeBody(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

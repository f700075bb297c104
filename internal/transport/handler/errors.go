package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/niklvrr/FossaOnboarding/internal/usecase/service"
)

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable,omitempty"`
}

// HandleError маппит доменные ошибки на HTTP коды и ErrorResponse
func HandleError(err error) (int, ErrorResponse) {
	if err == nil {
		return http.StatusOK, ErrorResponse{}
	}

	var domainErr *service.DomainError
	if errors.As(err, &domainErr) {
		return mapErrorCodeToHTTPStatus(domainErr.Code), ErrorResponse{
			Error: ErrorDetail{
				Code:      domainErr.Code,
				Message:   domainErr.Message,
				Retryable: service.IsRetryable(err),
			},
		}
	}

	// Неизвестная ошибка - возвращаем 500
	return http.StatusInternalServerError, ErrorResponse{
		Error: ErrorDetail{
			Code:    "INTERNAL_ERROR",
			Message: "internal server error",
		},
	}
}

func mapErrorCodeToHTTPStatus(code string) int {
	switch code {
	case service.CodeInvalidInput:
		return http.StatusBadRequest // 400
	case service.CodeNotFound:
		return http.StatusNotFound // 404
	case service.CodeNoMaintainers:
		return http.StatusUnprocessableEntity // 422
	case service.CodeUpstream, service.CodePartialApplication:
		return http.StatusBadGateway // 502
	case service.CodeTransient:
		return http.StatusServiceUnavailable // 503
	default:
		return http.StatusInternalServerError // 500
	}
}

// WriteError отправляет ErrorResponse клиенту
func WriteError(w http.ResponseWriter, statusCode int, errResp ErrorResponse) {
	writeJSON(w, statusCode, errResp)
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/phuslu/log"

	"lease-engine/domain"
	"lease-engine/repository"
	"lease-engine/service"
)

const maxBodyBytes = 1 << 20

type CalculateRequest struct {
	Contract domain.LeaseContractInput `json:"contract"`
	Market   domain.MarketParameters   `json:"market"`
}

type BatchRequest struct {
	Items []service.BatchItem `json:"items"`
}

type DiscountRateResponse struct {
	Validation   domain.ValidationResult    `json:"validation"`
	DiscountRate *domain.DiscountRateResult `json:"discount_rate,omitempty"`
}

type ExceptionResponse struct {
	Validation domain.ValidationResult   `json:"validation"`
	Exception  *domain.ExceptionAnalysis `json:"exception,omitempty"`
}

type LeaseHandler struct {
	service *service.LeaseService
}

func NewLeaseHandler(service *service.LeaseService) *LeaseHandler {
	return &LeaseHandler{service: service}
}

func (h *LeaseHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var input domain.LeaseContractInput
	if !decodeJSON(w, r, &input) {
		return
	}
	writeJSON(w, http.StatusOK, h.service.Validate(input))
}

func (h *LeaseHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req CalculateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	assessment, err := h.service.Assess(r.Context(), req.Contract, req.Market)
	if err != nil {
		log.Error().Err(err).Msg("error calculating lease")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	status := http.StatusOK
	if !assessment.Validation.IsValid {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, assessment.Rounded())
}

func (h *LeaseHandler) CalculateBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if len(req.Items) == 0 || len(req.Items) > service.MaxBatchSize {
		http.Error(w, fmt.Sprintf("batch must contain between 1 and %d contracts", service.MaxBatchSize), http.StatusBadRequest)
		return
	}

	assessments, err := h.service.AssessBatch(r.Context(), req.Items)
	if err != nil {
		log.Error().Err(err).Int("items", len(req.Items)).Msg("error calculating lease batch")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	rounded := make([]domain.LeaseAssessment, len(assessments))
	for i, a := range assessments {
		rounded[i] = a.Rounded()
	}
	writeJSON(w, http.StatusOK, rounded)
}

func (h *LeaseHandler) DiscountRate(w http.ResponseWriter, r *http.Request) {
	var req CalculateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	validation, rate := h.service.ResolveDiscountRate(req.Contract, req.Market)
	status := http.StatusOK
	if !validation.IsValid {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, DiscountRateResponse{Validation: validation, DiscountRate: rate})
}

func (h *LeaseHandler) Exceptions(w http.ResponseWriter, r *http.Request) {
	var input domain.LeaseContractInput
	if !decodeJSON(w, r, &input) {
		return
	}

	validation, analysis := h.service.ClassifyException(input)
	status := http.StatusOK
	if !validation.IsValid {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, ExceptionResponse{Validation: validation, Exception: analysis})
}

func (h *LeaseHandler) GetCalculation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	record, err := h.service.Get(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		http.Error(w, "calculation not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("error loading calculation")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, record.Assessment.Rounded())
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	// Validar Content-Type
	contentType := r.Header.Get("Content-Type")
	if !strings.Contains(contentType, "application/json") {
		http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
		return false
	}

	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		log.Debug().Err(err).Msg("error decoding request body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	// Codificar JSON en buffer primero para evitar escribir header si falla
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		log.Error().Err(err).Msg("error encoding response")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Error().Err(err).Msg("error writing response")
	}
}

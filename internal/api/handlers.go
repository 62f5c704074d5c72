package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/maltedev/coupon-finder/internal/checkout"
	"github.com/maltedev/coupon-finder/internal/models"
)

// Searcher finds candidate coupons for a region.
type Searcher interface {
	Search(ctx context.Context, region models.Region) []models.Coupon
}

// Validator tests a single code against the live storefront.
type Validator interface {
	Validate(ctx context.Context, code string, region models.Region) (models.ValidationOutcome, error)
}

type Handlers struct {
	searcher  Searcher
	validator Validator
	messages  checkout.MessageTable
	logger    *slog.Logger
}

func NewHandlers(searcher Searcher, validator Validator, messages checkout.MessageTable, logger *slog.Logger) *Handlers {
	return &Handlers{
		searcher:  searcher,
		validator: validator,
		messages:  messages,
		logger:    logger.With("component", "api"),
	}
}

// Routes registers the public endpoints on r.
func (h *Handlers) Routes(r chi.Router) {
	r.Get("/search", h.Search)
	r.Post("/test", h.Test)
	r.Get("/health", h.Health)
}

// SearchResponse lists every (code, source) pair found.
type SearchResponse struct {
	Codes []models.Coupon `json:"codes"`
}

// Search always answers 200, with an empty list when every source failed.
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	region := h.region(r.URL.Query().Get("region"))

	codes := h.searcher.Search(r.Context(), region)
	if codes == nil {
		codes = []models.Coupon{}
	}

	h.respondJSON(w, http.StatusOK, SearchResponse{Codes: codes})
}

// TestRequest asks for one code to be validated.
type TestRequest struct {
	Code   string `json:"code"`
	Region string `json:"region,omitempty"`
}

// Test runs the browser validation flow for a code.
func (h *Handlers) Test(w http.ResponseWriter, r *http.Request) {
	var req TestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondJSON(w, http.StatusBadRequest, models.ValidationOutcome{Message: "invalid request body"})
		return
	}

	region := h.region(req.Region)

	// A panic in the automation flow still answers with the outcome shape.
	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Error("validation panicked", "panic", rec, "code", req.Code, "region", region)
			h.respondJSON(w, http.StatusInternalServerError, models.ValidationOutcome{Message: h.messages.For(region).Failed})
		}
	}()

	outcome, err := h.validator.Validate(r.Context(), req.Code, region)
	if err != nil {
		if errors.Is(err, checkout.ErrEmptyCode) {
			h.respondJSON(w, http.StatusBadRequest, models.ValidationOutcome{Message: err.Error()})
			return
		}

		h.logger.Error("failed to validate code", "error", err, "code", req.Code, "region", region)
		message := err.Error()
		if message == "" {
			message = h.messages.For(region).Failed
		}
		h.respondJSON(w, http.StatusInternalServerError, models.ValidationOutcome{Message: message})
		return
	}

	h.respondJSON(w, http.StatusOK, outcome)
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// region falls back to the default for absent or unknown values.
func (h *Handlers) region(raw string) models.Region {
	region, err := models.ParseRegion(raw)
	if err != nil {
		h.logger.Warn("unknown region, using default", "region", raw, "default", region)
	}
	return region
}

func (h *Handlers) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"credit-application-system/internal/api/handler/dto"
	"credit-application-system/internal/domain/credit"
	"credit-application-system/internal/pkg/apperrors"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type CreditHandler struct {
	service credit.CreditService
	logger  *slog.Logger
}

func NewCreditHandler(s credit.CreditService, l *slog.Logger) *CreditHandler {
	if s == nil {
		panic("credit service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &CreditHandler{
		service: s,
		logger:  l.With("component", "CreditHandler"),
	}
}

func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return fmt.Errorf("no request body")
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	if payload == nil {
		w.WriteHeader(status)
		return
	}
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Default().Error("Failed to marshal JSON response", "error", err)
		http.Error(w, `{"title":"Internal Server Error","status":500}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

// respondError maps service errors onto the documented error body. The
// detail string carries the business message verbatim; clients match on
// that text.
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	title := "Internal Server Error! Consult the documentation"
	exception := "InternalServerError"
	detail := "An unexpected error occurred."

	var businessErr *apperrors.BusinessError
	var validationErr *apperrors.ValidationError

	switch {
	case errors.As(err, &businessErr):
		status = http.StatusBadRequest
		title = "Bad Request! Consult the documentation"
		exception = "BusinessError"
		detail = businessErr.Message
	case errors.Is(err, apperrors.ErrAlreadyExists), errors.Is(err, apperrors.ErrConflict):
		status = http.StatusConflict
		title = "Conflict! Consult the documentation"
		exception = "ConflictError"
		detail = err.Error()
	case errors.As(err, &validationErr):
		status = http.StatusBadRequest
		title = "Bad Request! Consult the documentation"
		exception = "ValidationError"
		detail = validationErr.Message
	case errors.Is(err, apperrors.ErrInvalidArgument), errors.Is(err, apperrors.ErrValidation):
		status = http.StatusBadRequest
		title = "Bad Request! Consult the documentation"
		exception = "ValidationError"
		detail = err.Error()
	case errors.Is(err, apperrors.ErrNotFound):
		status = http.StatusNotFound
		title = "Not Found! Consult the documentation"
		exception = "NotFoundError"
		detail = err.Error()
	default:
		slog.Default().Error("Unhandled internal error", "error", err)
	}

	resp := dto.ErrorResponse{
		Title:     title,
		Timestamp: time.Now(),
		Status:    status,
		Exception: exception,
		Details:   []string{detail},
	}
	respondJSON(w, status, resp)
}

func getCustomerIDFromQuery(r *http.Request) (int64, error) {
	idStr := r.URL.Query().Get("customerId")
	if idStr == "" {
		return 0, fmt.Errorf("%w: customerId query parameter is required", apperrors.ErrInvalidArgument)
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid customerId format: %s", apperrors.ErrInvalidArgument, idStr)
	}
	return id, nil
}

// CreateCredit handles POST /api/credits
// @Summary Apply for credit
// @Description Creates a new credit application for an existing customer. The first installment must fall within three months of today.
// @Tags Credits
// @Accept json
// @Produce json
// @Param request body dto.CreateCreditRequest true "Credit application payload"
// @Success 201 {object} dto.CreditResponse "Credit application created"
// @Failure 400 {object} dto.ErrorResponse "Invalid payload, unknown customer or invalid first installment date"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/credits [post]
// @Security BearerAuth
func (h *CreditHandler) CreateCredit(w http.ResponseWriter, r *http.Request) {
	h.logger.DebugContext(r.Context(), "Received create credit request")

	var req dto.CreateCreditRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		h.logger.WarnContext(r.Context(), "Request validation failed", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	createdCredit, err := h.service.CreateCredit(r.Context(), req.ToEntity())
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrBusiness) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to create credit", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := dto.NewCreditResponse(createdCredit)
	h.logger.InfoContext(r.Context(), "Credit created successfully", slog.String("creditCode", resp.CreditCode))
	respondJSON(w, http.StatusCreated, resp)
}

// ListCreditsByCustomer handles GET /api/credits?customerId={id}
// @Summary List credit applications of a customer
// @Description Returns all credit applications owned by the given customer, possibly empty.
// @Tags Credits
// @Produce json
// @Param customerId query int true "Customer ID" Minimum(1)
// @Success 200 {array} dto.CreditSummaryResponse "List of credit summaries"
// @Failure 400 {object} dto.ErrorResponse "Missing or invalid customerId"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/credits [get]
// @Security BearerAuth
func (h *CreditHandler) ListCreditsByCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := getCustomerIDFromQuery(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get customer ID from query", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.DebugContext(r.Context(), "Received list credits request")

	credits, err := h.service.FindAllByCustomer(r.Context(), customerID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to list credits", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := make([]dto.CreditSummaryResponse, len(credits))
	for i, cred := range credits {
		resp[i] = dto.NewCreditSummaryResponse(cred)
	}

	h.logger.InfoContext(r.Context(), "Credits listed successfully", slog.Int("count", len(resp)))
	respondJSON(w, http.StatusOK, resp)
}

// GetCreditByCode handles GET /api/credits/{creditCode}?customerId={id}
// @Summary Retrieve a credit application by its code
// @Description Looks up a credit by its external code; the credit must belong to the requesting customer.
// @Tags Credits
// @Produce json
// @Param creditCode path string true "Credit code (UUID)"
// @Param customerId query int true "Customer ID" Minimum(1)
// @Success 200 {object} dto.CreditResponse "Credit details"
// @Failure 400 {object} dto.ErrorResponse "Unknown credit code or ownership mismatch"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/credits/{creditCode} [get]
// @Security BearerAuth
func (h *CreditHandler) GetCreditByCode(w http.ResponseWriter, r *http.Request) {
	customerID, err := getCustomerIDFromQuery(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get customer ID from query", slog.Any("error", err))
		respondError(w, err)
		return
	}

	codeStr := chi.URLParam(r, "creditCode")
	creditCode, err := uuid.Parse(codeStr)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Invalid credit code in URL", slog.String("creditCode", codeStr))
		respondError(w, fmt.Errorf("%w: invalid creditCode format: %s", apperrors.ErrInvalidArgument, codeStr))
		return
	}

	h.logger.DebugContext(r.Context(), "Received get credit by code request")

	cred, err := h.service.FindByCreditCode(r.Context(), customerID, creditCode)
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrBusiness) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to get credit by code", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := dto.NewCreditResponse(cred)
	h.logger.InfoContext(r.Context(), "Credit retrieved successfully")
	respondJSON(w, http.StatusOK, resp)
}

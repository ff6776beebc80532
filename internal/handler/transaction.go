package handler

import (
	"errors"
	"net/http"

	"github.com/pennywise/pennywise-go/internal/middleware"
	"github.com/pennywise/pennywise-go/internal/model"
	"github.com/pennywise/pennywise-go/internal/service"
)

// TransactionHandler handles HTTP requests for transactions, categories
// and the derived reports.
type TransactionHandler struct {
	transactions *service.TransactionService
	reports      *service.ReportService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactions *service.TransactionService, reports *service.ReportService) *TransactionHandler {
	return &TransactionHandler{transactions: transactions, reports: reports}
}

// HandleList handles GET /transaction requests: the last three months of
// transactions grouped by month.
func (h *TransactionHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	groups, err := h.transactions.MonthlyGroups(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	if groups == nil {
		groups = []model.MonthGroup{}
	}
	writeJSON(w, http.StatusOK, groups)
}

// HandleRecent handles GET /transaction/recent requests.
func (h *TransactionHandler) HandleRecent(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	list, err := h.transactions.Recent(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	if list == nil {
		list = []model.TransactionWithCategory{}
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleTotal handles GET /transaction/total requests: the all-time
// balance.
func (h *TransactionHandler) HandleTotal(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	balance, err := h.reports.Balance(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, balance)
}

// HandleStats handles GET /transaction/stats/{month}/{year} requests.
func (h *TransactionHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	month, year, ok := monthYearParams(w, r)
	if !ok {
		return
	}

	stats, err := h.reports.Stats(r.Context(), userID, month, year)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// HandleByDate handles GET /transaction/date/{month}/{year} requests:
// the full month report with transactions and category breakdown.
func (h *TransactionHandler) HandleByDate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	month, year, ok := monthYearParams(w, r)
	if !ok {
		return
	}

	view, err := h.reports.MonthView(r.Context(), userID, month, year)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	if view.Transactions == nil {
		view.Transactions = []model.TransactionWithCategory{}
	}
	if view.Categories == nil {
		view.Categories = []model.CategoryBreakdown{}
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleSummary handles GET /transaction/summary/{month}/{year} requests.
func (h *TransactionHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	month, year, ok := monthYearParams(w, r)
	if !ok {
		return
	}

	resp, err := h.reports.Summary(r.Context(), userID, month, year)
	if err != nil {
		if errors.Is(err, service.ErrSummaryFailed) {
			writeJSON(w, http.StatusBadGateway, errorResponse(err.Error()))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleCreate handles POST /transaction requests.
func (h *TransactionHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	var req model.TransactionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	tx, err := h.transactions.Create(r.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidType):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		case errors.Is(err, service.ErrCategoryNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusCreated, tx)
}

// HandleUpdate handles PUT /transaction/{id} requests.
func (h *TransactionHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var req model.TransactionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	tx, err := h.transactions.Update(r.Context(), userID, id, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidType):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		case errors.Is(err, service.ErrTransactionNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusOK, tx)
}

// HandleDelete handles POST /transaction/delete requests: bulk removal
// by id list.
func (h *TransactionHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	var req model.DeleteRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.transactions.Delete(r.Context(), userID, req.IDs); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleListCategories handles GET /transaction/category requests.
func (h *TransactionHandler) HandleListCategories(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	list, err := h.transactions.Categories(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	if list == nil {
		list = []model.Category{}
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleCreateCategory handles POST /transaction/category requests.
func (h *TransactionHandler) HandleCreateCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	var req model.CategoryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	category, err := h.transactions.CreateCategory(r.Context(), userID, req)
	if err != nil {
		if errors.Is(err, service.ErrCategoryExists) {
			writeJSON(w, http.StatusConflict, errorResponse(err.Error()))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusCreated, category)
}

// HandleUpdateCategory handles PUT /transaction/category/{id} requests.
func (h *TransactionHandler) HandleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var req model.CategoryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	category, err := h.transactions.UpdateCategory(r.Context(), userID, id, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCategoryExists):
			writeJSON(w, http.StatusConflict, errorResponse(err.Error()))
		case errors.Is(err, service.ErrCategoryNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusOK, category)
}

// HandleDeleteCategory handles DELETE /transaction/category/{id}
// requests.
func (h *TransactionHandler) HandleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := h.transactions.DeleteCategory(r.Context(), userID, id); err != nil {
		switch {
		case errors.Is(err, service.ErrCategoryInUse):
			writeJSON(w, http.StatusConflict, errorResponse(err.Error()))
		case errors.Is(err, service.ErrCategoryNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

/*
handlers.go - HTTP API handlers for the points engine

PURPOSE:
  Exposes the points engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the engine for all domain logic.

ENDPOINTS:
  Status:
    GET    /api/status                    Full dashboard read model

  Tasks:
    POST   /api/tasks/{id}/minutes        Add minutes to a minutes task
    POST   /api/tasks/{id}/check          Check off a check task

  Goals:
    POST   /api/goals/{id}/complete       Complete a one-time goal

  Shop:
    POST   /api/shop/{id}/purchase        Buy an item at its effective cost
    GET    /api/purchases                 Purchase history, newest first

  Gifts:
    POST   /api/gifts/{id}/accept         Credit a pending gift

  Roulette:
    GET    /api/roulette/today            Today's outcome or spin gate
    POST   /api/roulette/spin             Spin (once per local day)

  History:
    GET    /api/history/day?date=         Itemized single-day breakdown
    GET    /api/history/month?year=&month= Month breakdown with totals

  Admin:
    PUT    /api/admin/days/{date}         Replace a day's raw log, recompute
    POST   /api/admin/balance/adjust      Shift balance by a delta
    POST   /api/admin/balance/set         Force balance to a value
    POST   /api/admin/gifts               Queue a gift
    PUT    /api/admin/tasks               Replace the task catalog
    PUT    /api/admin/goals               Replace the goal catalog
    PUT    /api/admin/shop                Replace the shop catalog
    POST   /api/admin/maintenance         Run a settlement pass now

ERROR HANDLING:
  Engine errors map to HTTP status via the typed error helpers:
  - 400: Invalid input
  - 404: Unknown task/goal/item/gift
  - 409: Already spun, already completed, insufficient balance
  - 500: Persistence failures and everything else

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/warp/points-engine/engine"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Engine *engine.Engine
}

// NewHandler creates a new handler backed by the given engine.
func NewHandler(eng *engine.Engine) *Handler {
	return &Handler{Engine: eng}
}

// =============================================================================
// STATUS
// =============================================================================

// GetStatus returns the full dashboard read model.
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	st, err := h.Engine.Status(r.Context())
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// =============================================================================
// TASKS
// =============================================================================

// AddMinutes records time spent on a minutes task today.
func (h *Handler) AddMinutes(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req AddMinutesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.Engine.RecordCompletion(r.Context(), id, req.Minutes); err != nil {
		writeEngineError(w, err)
		return
	}
	h.GetStatus(w, r)
}

// CheckTask checks off a check task for today. Idempotent.
func (h *Handler) CheckTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Engine.RecordCompletion(r.Context(), id, 0); err != nil {
		writeEngineError(w, err)
		return
	}
	h.GetStatus(w, r)
}

// =============================================================================
// GOALS
// =============================================================================

// CompleteGoal completes a one-time goal.
func (h *Handler) CompleteGoal(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Engine.CompleteGoal(r.Context(), id); err != nil {
		writeEngineError(w, err)
		return
	}
	h.GetStatus(w, r)
}

// =============================================================================
// SHOP
// =============================================================================

// PurchaseItem buys an item at today's effective cost.
func (h *Handler) PurchaseItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	receipt, err := h.Engine.Buy(r.Context(), id)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	st, err := h.Engine.Status(r.Context())
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, PurchaseResponse{
		Balance: st.Balance,
		Cost:    receipt.Cost,
		Free:    receipt.Cost == 0,
	})
}

// ListPurchases returns the purchase history, most recent first.
func (h *Handler) ListPurchases(w http.ResponseWriter, r *http.Request) {
	purchases, err := h.Engine.Purchases(r.Context())
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, purchases)
}

// =============================================================================
// GIFTS
// =============================================================================

// AcceptGift credits a pending gift to the balance.
func (h *Handler) AcceptGift(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Engine.AcceptGift(r.Context(), id); err != nil {
		writeEngineError(w, err)
		return
	}
	h.GetStatus(w, r)
}

// =============================================================================
// ROULETTE
// =============================================================================

// GetRoulette returns today's roulette state.
func (h *Handler) GetRoulette(w http.ResponseWriter, r *http.Request) {
	view, err := h.Engine.TodayRoulette(r.Context())
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// SpinRoulette draws today's outcome. A second spin on the same day returns
// 409 with the existing outcome in the details.
func (h *Handler) SpinRoulette(w http.ResponseWriter, r *http.Request) {
	view, err := h.Engine.SpinRoulette(r.Context())
	if err != nil {
		if errors.Is(err, engine.ErrAlreadySpun) {
			writeJSON(w, http.StatusConflict, view)
			return
		}
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// =============================================================================
// HISTORY
// =============================================================================

// GetDayHistory returns the itemized breakdown for one date.
func (h *Handler) GetDayHistory(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		writeError(w, http.StatusBadRequest, "Missing date parameter (YYYY-MM-DD)", nil)
		return
	}

	day, err := h.Engine.DayHistory(r.Context(), date)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, day)
}

// GetMonthHistory returns per-day breakdowns and totals for one month.
func (h *Handler) GetMonthHistory(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year parameter", err)
		return
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month parameter", err)
		return
	}

	hist, err := h.Engine.MonthHistory(r.Context(), year, month)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, hist)
}

// =============================================================================
// ADMIN
// =============================================================================

// EditDay replaces a date's raw log and recomputes everything derived.
func (h *Handler) EditDay(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")

	var req EditDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	day, balance, err := h.Engine.AdminEditDay(r.Context(), date, req.Minutes, req.Checks)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, EditDayResponse{Day: day, Balance: balance})
}

// AdjustBalance shifts the balance by a signed delta.
func (h *Handler) AdjustBalance(w http.ResponseWriter, r *http.Request) {
	var req AdjustBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	balance, err := h.Engine.AdminAddBalance(r.Context(), req.Delta)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, BalanceResponse{Balance: balance})
}

// SetBalance forces the balance to a value.
func (h *Handler) SetBalance(w http.ResponseWriter, r *http.Request) {
	var req SetBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	balance, err := h.Engine.AdminSetBalance(r.Context(), req.Balance)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, BalanceResponse{Balance: balance})
}

// CreateGift queues a gift for later acceptance.
func (h *Handler) CreateGift(w http.ResponseWriter, r *http.Request) {
	var req CreateGiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	gifts, err := h.Engine.AdminAddGift(r.Context(), req.Title, req.Amount)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, GiftsResponse{Gifts: gifts})
}

// ReplaceTasks replaces the task catalog and recomputes.
func (h *Handler) ReplaceTasks(w http.ResponseWriter, r *http.Request) {
	var req SetTasksRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.Engine.SetTasks(r.Context(), req.Tasks); err != nil {
		writeEngineError(w, err)
		return
	}
	h.GetStatus(w, r)
}

// ReplaceGoals replaces the goal catalog and recomputes.
func (h *Handler) ReplaceGoals(w http.ResponseWriter, r *http.Request) {
	var req SetGoalsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.Engine.SetGoals(r.Context(), req.Goals); err != nil {
		writeEngineError(w, err)
		return
	}
	h.GetStatus(w, r)
}

// ReplaceShop replaces the shop catalog.
func (h *Handler) ReplaceShop(w http.ResponseWriter, r *http.Request) {
	var req SetShopRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.Engine.SetShop(r.Context(), req.Items); err != nil {
		writeEngineError(w, err)
		return
	}
	h.GetStatus(w, r)
}

// RunMaintenance triggers an immediate settlement pass.
func (h *Handler) RunMaintenance(w http.ResponseWriter, r *http.Request) {
	if err := h.Engine.RunMaintenance(r.Context()); err != nil {
		writeEngineError(w, err)
		return
	}
	h.GetStatus(w, r)
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeEngineError maps typed engine errors to HTTP status codes.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case engine.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Not found", err)
	case errors.Is(err, engine.ErrAlreadyCompleted),
		errors.Is(err, engine.ErrAlreadySpun),
		errors.Is(err, engine.ErrInsufficientBalance):
		writeError(w, http.StatusConflict, "Conflict", err)
	case engine.IsClientError(err):
		writeError(w, http.StatusBadRequest, "Invalid input", err)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}

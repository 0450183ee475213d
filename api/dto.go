/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Read models coming out
  of the engine (Status, RouletteView, DayHistory, MonthHistory) already
  carry JSON tags and are returned as-is; this file holds the request
  bodies, the small response wrappers, and the error envelope.

NAMING CONVENTION:
  - *Request: Request body types from clients
  - *Response: Response wrappers

VALIDATION:
  Structural validation (missing fields, bad dates) happens in handlers;
  domain validation lives in the engine and surfaces as typed errors.

SEE ALSO:
  - handlers.go: Uses these types
  - engine/status.go, engine/roulette.go, engine/history.go: Read models
*/
package api

import "github.com/warp/points-engine/engine"

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// AddMinutesRequest reports time spent on a minutes task today.
type AddMinutesRequest struct {
	Minutes int `json:"minutes"`
}

// BalanceResponse wraps the balance after a ledger mutation.
type BalanceResponse struct {
	Balance int `json:"balance"`
}

// PurchaseResponse reports the effective price paid and the new balance.
type PurchaseResponse struct {
	Balance int  `json:"balance"`
	Cost    int  `json:"cost"`
	Free    bool `json:"free"`
}

// EditDayRequest replaces a date's raw log.
type EditDayRequest struct {
	Minutes map[string]int `json:"minutes"`
	Checks  []string       `json:"checks"`
}

// EditDayResponse returns the rebuilt day and the recomputed balance.
type EditDayResponse struct {
	Day     engine.DayHistory `json:"day"`
	Balance int               `json:"balance"`
}

// AdjustBalanceRequest shifts the balance by a signed delta.
type AdjustBalanceRequest struct {
	Delta int `json:"delta"`
}

// SetBalanceRequest forces the balance to a value.
type SetBalanceRequest struct {
	Balance int `json:"balance"`
}

// CreateGiftRequest queues a gift.
type CreateGiftRequest struct {
	Title  string `json:"title"`
	Amount int    `json:"amount"`
}

// GiftsResponse lists pending gifts.
type GiftsResponse struct {
	Gifts []engine.Gift `json:"gifts"`
}

// SetTasksRequest replaces the task catalog.
type SetTasksRequest struct {
	Tasks []engine.TaskDefinition `json:"tasks"`
}

// SetGoalsRequest replaces the goal catalog.
type SetGoalsRequest struct {
	Goals []engine.Goal `json:"goals"`
}

// SetShopRequest replaces the shop catalog.
type SetShopRequest struct {
	Items []engine.ShopItem `json:"items"`
}

// ErrorResponse is the error envelope for all non-2xx responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

package handler

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"player-economy/internal/domain"
	"player-economy/internal/errors"
)

// Accounts is the balance surface the economy exposes to collaborators.
type Accounts interface {
	Get(ctx context.Context, id domain.Identity) int64
	Set(ctx context.Context, id domain.Identity, balance int64) error
	Has(ctx context.Context, id domain.Identity) bool
	Accounts(ctx context.Context) ([]domain.Account, error)
}

type AccountHandler struct {
	accounts Accounts
}

func NewAccountHandler(accounts Accounts) *AccountHandler {
	return &AccountHandler{
		accounts: accounts,
	}
}

type SetBalanceRequest struct {
	Balance string `json:"balance"`
}

type AccountResponse struct {
	Username string `json:"username"`
	Balance  int64  `json:"balance"`
}

func (h *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accounts.Accounts(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	response := make([]AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		response = append(response, AccountResponse{Username: a.Username, Balance: a.Balance})
	}

	writeData(w, http.StatusOK, response)
}

// GetAccount answers 0 for players that have no account yet.
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	balance := h.accounts.Get(r.Context(), domain.NewIdentity(username))
	writeData(w, http.StatusOK, AccountResponse{Username: username, Balance: balance})
}

func (h *AccountHandler) SetBalance(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	var req SetBalanceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	amount, err := decimal.NewFromString(req.Balance)
	if err != nil {
		writeError(w, errors.NewAppError(errors.InvalidAmount, "invalid balance format"))
		return
	}
	balance, ok := domain.FloorAmount(amount)
	if !ok {
		writeError(w, errors.ErrAmountOutOfRange)
		return
	}

	if err := h.accounts.Set(r.Context(), domain.NewIdentity(username), balance); err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, AccountResponse{Username: username, Balance: balance})
}

// HasAccount answers 200 when the account row exists and 404 otherwise.
func (h *AccountHandler) HasAccount(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	if !h.accounts.Has(r.Context(), domain.NewIdentity(username)) {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusOK)
}

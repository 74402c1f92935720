package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/eshop/backoffice/internal/middleware"
	"github.com/eshop/backoffice/internal/models"
	"github.com/eshop/backoffice/internal/services"
)

// CreateWalletRequest is the body of POST /wallets
type CreateWalletRequest struct {
	OwnerEmail string `json:"ownerEmail" validate:"required,email" example:"jane@example.com"`
}

// LedgerRequest is the body of a deposit or withdrawal
type LedgerRequest struct {
	Amount      models.Money `json:"amount" validate:"required" swaggertype:"number" example:"25.50"`
	Reference   string       `json:"reference,omitempty" validate:"max=100" example:"INV-2024-001"`
	Description string       `json:"description,omitempty" validate:"max=255" example:"Top up"`
}

type WalletHandler struct {
	service   *services.LedgerService
	validator *services.ValidationHelper
}

func NewWalletHandler(service *services.LedgerService) *WalletHandler {
	return &WalletHandler{
		service:   service,
		validator: services.NewValidationHelper(),
	}
}

// List returns every wallet
// @Summary List wallets
// @Tags wallets
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Wallet
// @Router /wallets [get]
func (h *WalletHandler) List(w http.ResponseWriter, r *http.Request) {
	wallets, err := h.service.ListWallets(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wallets)
}

// Create opens a wallet with a zero balance
// @Summary Create wallet
// @Tags wallets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateWalletRequest true "Wallet owner"
// @Success 201 {object} models.Wallet
// @Failure 400 {object} services.ErrorResponse
// @Router /wallets [post]
func (h *WalletHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateWalletRequest
	if !decodeRequest(w, r, h.validator, &req) {
		return
	}
	wallet, err := h.service.CreateWallet(r.Context(), req.OwnerEmail)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, wallet)
}

// Me returns the wallet owned by the signed-in user
// @Summary My wallet
// @Description Earliest wallet whose owner is the session email
// @Tags wallets
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Wallet
// @Failure 404 {object} services.ErrorResponse
// @Router /wallets/me [get]
func (h *WalletHandler) Me(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		respondError(w, r, services.ErrInvalidSession)
		return
	}
	wallet, err := h.service.WalletForOwner(r.Context(), session.User.Email)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wallet)
}

// Get returns one wallet
// @Summary Get wallet
// @Tags wallets
// @Produce json
// @Security BearerAuth
// @Param id path string true "Wallet ID"
// @Success 200 {object} models.Wallet
// @Failure 404 {object} services.ErrorResponse
// @Router /wallets/{id} [get]
func (h *WalletHandler) Get(w http.ResponseWriter, r *http.Request) {
	wallet, err := h.service.GetWallet(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wallet)
}

// Deposit credits a wallet
// @Summary Deposit
// @Tags wallets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Wallet ID"
// @Param Idempotency-Key header string false "Replay protection key"
// @Param request body LedgerRequest true "Deposit"
// @Success 200 {object} services.LedgerResult
// @Failure 400 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Failure 409 {object} services.ErrorResponse
// @Router /wallets/{id}/deposit [post]
func (h *WalletHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	var req LedgerRequest
	if !decodeRequest(w, r, h.validator, &req) {
		return
	}
	result, err := h.service.Deposit(r.Context(), chi.URLParam(r, "id"), req.Amount, req.Reference, req.Description)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Withdraw debits a wallet
// @Summary Withdraw
// @Tags wallets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Wallet ID"
// @Param Idempotency-Key header string false "Replay protection key"
// @Param request body LedgerRequest true "Withdrawal"
// @Success 200 {object} services.LedgerResult
// @Failure 400 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Failure 409 {object} services.ErrorResponse
// @Failure 422 {object} services.ErrorResponse "Insufficient balance"
// @Router /wallets/{id}/withdraw [post]
func (h *WalletHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var req LedgerRequest
	if !decodeRequest(w, r, h.validator, &req) {
		return
	}
	result, err := h.service.Withdraw(r.Context(), chi.URLParam(r, "id"), req.Amount, req.Reference, req.Description)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Transactions lists a wallet's history, newest first
// @Summary Wallet transactions
// @Tags wallets
// @Produce json
// @Security BearerAuth
// @Param id path string true "Wallet ID"
// @Success 200 {array} models.Transaction
// @Failure 404 {object} services.ErrorResponse
// @Router /wallets/{id}/transactions [get]
func (h *WalletHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	txns, err := h.service.GetTransactions(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, txns)
}

// Summary reconciles a wallet's balance with its history
// @Summary Wallet summary
// @Tags wallets
// @Produce json
// @Security BearerAuth
// @Param id path string true "Wallet ID"
// @Success 200 {object} services.WalletSummary
// @Failure 404 {object} services.ErrorResponse
// @Router /wallets/{id}/summary [get]
func (h *WalletHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// AllTransactions lists transactions across wallets
// @Summary List transactions
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param walletId query string false "Wallet ID"
// @Param type query string false "deposit or withdraw"
// @Param q query string false "Free text over reference and description"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10)
// @Success 200 {object} services.TransactionPage
// @Failure 400 {object} services.ErrorResponse
// @Router /transactions [get]
func (h *WalletHandler) AllTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := queryInt(q.Get("page"))
	if err != nil {
		services.SendErrorResponse(w, "page must be an integer", http.StatusBadRequest, nil)
		return
	}
	pageSize, err := queryInt(q.Get("pageSize"))
	if err != nil {
		services.SendErrorResponse(w, "pageSize must be an integer", http.StatusBadRequest, nil)
		return
	}

	result, err := h.service.GetAllTransactions(r.Context(), models.TransactionFilter{
		WalletID: q.Get("walletId"),
		Type:     q.Get("type"),
		Query:    q.Get("q"),
	}, page, pageSize)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func queryInt(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}

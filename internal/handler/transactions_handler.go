package handler

import (
	"errors"
	"net/http"

	"gigaaura/internal/ledger"
	"gigaaura/internal/models"
	"gigaaura/internal/repository"
	"gigaaura/internal/service"

	"github.com/gin-gonic/gin"
)

// TransactionsHandler serves the aura read/write API. Per the client
// contract, the read path never answers 5xx and the write path reports
// persistence trouble as a warning in a 200 body, so callers always get
// something parsable.
type TransactionsHandler struct {
	auraSvc    *service.AuraService
	ledger     *ledger.Ledger
	pointsRepo *repository.PointsRepository
	gate       *repository.Gate
}

func NewTransactionsHandler(auraSvc *service.AuraService, l *ledger.Ledger, pointsRepo *repository.PointsRepository, gate *repository.Gate) *TransactionsHandler {
	return &TransactionsHandler{auraSvc: auraSvc, ledger: l, pointsRepo: pointsRepo, gate: gate}
}

// Get handles GET /api/transactions?walletAddress=. Connected wallets are
// answered from the ledger; otherwise the remote store is consulted, which
// itself defaults on failure. Any trouble yields {100, []} with 200.
func (h *TransactionsHandler) Get(c *gin.Context) {
	wallet := c.Query("walletAddress")
	if wallet == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "walletAddress is required"})
		return
	}
	var state models.PointsState
	if h.ledger.Connected(wallet) {
		state = h.ledger.Get(wallet)
	} else {
		state, _ = h.pointsRepo.Get(wallet)
	}
	c.JSON(http.StatusOK, gin.H{
		"totalPoints":  state.TotalPoints,
		"transactions": state.Transactions,
	})
}

// Create handles POST /api/transactions. The in-memory credit cannot fail;
// only invalid input is a real error.
func (h *TransactionsHandler) Create(c *gin.Context) {
	var req struct {
		WalletAddress string             `json:"walletAddress"`
		Transaction   models.Transaction `json:"transaction"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.WalletAddress == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "walletAddress is required"})
		return
	}
	if req.Transaction.Action == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "transaction.action is required"})
		return
	}
	txn, err := h.auraSvc.Credit(req.WalletAddress, req.Transaction)
	if err != nil {
		if errors.Is(err, service.ErrUnknownAction) || errors.Is(err, service.ErrZeroAmount) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": false, "warning": err.Error(), "transaction": req.Transaction})
		return
	}
	if h.gate.Degraded() {
		c.JSON(http.StatusOK, gin.H{
			"success":     false,
			"warning":     "remote store unavailable; transaction applied and cached locally",
			"transaction": txn,
		})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "transaction": txn})
}

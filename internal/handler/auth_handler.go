package handler

import (
	"net/http"

	"gigaaura/config"
	"gigaaura/internal/auth"
	"gigaaura/internal/middleware"
	"gigaaura/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	cfg        *config.JWTConfig
	nonces     *auth.NonceStore
	sessionSvc *service.SessionService
}

func NewAuthHandler(cfg *config.JWTConfig, nonces *auth.NonceStore, sessionSvc *service.SessionService) *AuthHandler {
	return &AuthHandler{cfg: cfg, nonces: nonces, sessionSvc: sessionSvc}
}

// Nonce handles POST /api/auth/nonce: issues the message the wallet
// extension must sign.
func (h *AuthHandler) Nonce(c *gin.Context) {
	var req struct {
		WalletAddress string `json:"walletAddress" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "walletAddress is required"})
		return
	}
	nonce := h.nonces.Issue(req.WalletAddress)
	c.JSON(http.StatusOK, gin.H{"nonce": nonce, "message": auth.LoginMessage(nonce)})
}

// Login handles POST /api/auth/wallet: verifies the signature over the
// issued nonce and returns a session token. It also kicks off the points
// reconciliation for the wallet so the first feed render has data.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		WalletAddress string `json:"walletAddress" binding:"required"`
		Signature     string `json:"signature" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "walletAddress and signature are required"})
		return
	}
	nonce, err := h.nonces.Consume(req.WalletAddress)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "request a nonce first"})
		return
	}
	if err := auth.VerifyWalletSignature(req.WalletAddress, auth.LoginMessage(nonce), req.Signature); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	token, err := auth.GenerateToken(h.cfg, req.WalletAddress)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}
	state := h.sessionSvc.Connect(req.WalletAddress)
	c.JSON(http.StatusOK, gin.H{
		"token":         token,
		"walletAddress": req.WalletAddress,
		"totalPoints":   state.TotalPoints,
		"transactions":  state.Transactions,
	})
}

// Session handles GET /api/session: re-runs the connect flow for the
// authenticated wallet and returns the immediate (phase-1) state.
func (h *AuthHandler) Session(c *gin.Context) {
	wallet := middleware.GetWallet(c)
	state := h.sessionSvc.Connect(wallet)
	c.JSON(http.StatusOK, gin.H{
		"walletAddress": wallet,
		"totalPoints":   state.TotalPoints,
		"transactions":  state.Transactions,
	})
}

// Disconnect handles POST /api/session/disconnect: drops the wallet's
// in-memory state. Persisted copies are untouched.
func (h *AuthHandler) Disconnect(c *gin.Context) {
	h.sessionSvc.Disconnect(middleware.GetWallet(c))
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

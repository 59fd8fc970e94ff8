package handler

import (
	"net/http"
	"time"

	"gigaaura/internal/domain"
	"gigaaura/internal/middleware"
	"gigaaura/internal/models"
	"gigaaura/internal/repository"
	"gigaaura/internal/service"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	userRepo *repository.UserRepository
	auraSvc  *service.AuraService
	notifSvc *service.NotificationService
}

func NewProfileHandler(userRepo *repository.UserRepository, auraSvc *service.AuraService, notifSvc *service.NotificationService) *ProfileHandler {
	return &ProfileHandler{userRepo: userRepo, auraSvc: auraSvc, notifSvc: notifSvc}
}

// Get handles GET /api/profile?walletAddress=. An unknown wallet gets an
// empty profile, not a 404; the UI renders a default card either way.
func (h *ProfileHandler) Get(c *gin.Context) {
	wallet := c.Query("walletAddress")
	if wallet == "" {
		wallet = middleware.GetWallet(c)
	}
	if wallet == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "walletAddress is required"})
		return
	}
	u, err := h.userRepo.Get(wallet)
	if err != nil || u == nil {
		c.JSON(http.StatusOK, models.User{
			WalletAddress: wallet,
			Following:     models.StringList{},
			Followers:     models.StringList{},
		})
		return
	}
	c.JSON(http.StatusOK, u)
}

// Update handles PUT /api/profile. Profile saves are one of the few writes
// the user explicitly waits on, so a persistence failure here surfaces as a
// real error.
func (h *ProfileHandler) Update(c *gin.Context) {
	wallet := middleware.GetWallet(c)
	var req struct {
		Username    *string `json:"username"`
		Bio         *string `json:"bio"`
		Avatar      *string `json:"avatar"`
		BannerImage *string `json:"bannerImage"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	u, err := h.userRepo.Get(wallet)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "profile unavailable"})
		return
	}
	if u == nil {
		u = &models.User{WalletAddress: wallet, CreatedAt: time.Now()}
	}
	if req.Username != nil {
		u.Username = *req.Username
	}
	if req.Bio != nil {
		u.Bio = *req.Bio
	}
	if req.Avatar != nil {
		u.Avatar = *req.Avatar
	}
	if req.BannerImage != nil {
		u.BannerImage = *req.BannerImage
	}
	u.UpdatedAt = time.Now()
	if err := h.userRepo.Upsert(u); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "profile save failed"})
		return
	}
	c.JSON(http.StatusOK, u)
}

// Follow handles POST /api/profile/follow/:wallet. Both sides earn aura and
// the followed wallet is notified.
func (h *ProfileHandler) Follow(c *gin.Context) {
	actor := middleware.GetWallet(c)
	target := c.Param("wallet")
	if target == "" || target == actor {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid follow target"})
		return
	}
	actorProfile, targetProfile, err := h.pair(actor, target)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "profiles unavailable"})
		return
	}
	if actorProfile.Following.Contains(target) {
		c.JSON(http.StatusOK, gin.H{"success": true, "following": actorProfile.Following})
		return
	}
	actorProfile.Following = append(actorProfile.Following, target)
	targetProfile.Followers = append(targetProfile.Followers, actor)
	if err := h.saveBoth(actorProfile, targetProfile); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "follow save failed"})
		return
	}
	_, _ = h.auraSvc.Award(target, domain.ActionFollowerGained, actorProfile.DisplayName(), actor)
	_, _ = h.auraSvc.Award(actor, domain.ActionFollowGiven, targetProfile.DisplayName(), target)
	h.notifSvc.NotifyFollow(target, *actorProfile)
	c.JSON(http.StatusOK, gin.H{"success": true, "following": actorProfile.Following})
}

// Unfollow handles DELETE /api/profile/follow/:wallet. No aura is clawed
// back; the history is append-only.
func (h *ProfileHandler) Unfollow(c *gin.Context) {
	actor := middleware.GetWallet(c)
	target := c.Param("wallet")
	actorProfile, targetProfile, err := h.pair(actor, target)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "profiles unavailable"})
		return
	}
	actorProfile.Following = actorProfile.Following.Remove(target)
	targetProfile.Followers = targetProfile.Followers.Remove(actor)
	if err := h.saveBoth(actorProfile, targetProfile); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unfollow save failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "following": actorProfile.Following})
}

func (h *ProfileHandler) pair(actor, target string) (*models.User, *models.User, error) {
	a, err := h.userRepo.Get(actor)
	if err != nil {
		return nil, nil, err
	}
	if a == nil {
		a = &models.User{WalletAddress: actor, CreatedAt: time.Now()}
	}
	t, err := h.userRepo.Get(target)
	if err != nil {
		return nil, nil, err
	}
	if t == nil {
		t = &models.User{WalletAddress: target, CreatedAt: time.Now()}
	}
	return a, t, nil
}

func (h *ProfileHandler) saveBoth(a, b *models.User) error {
	a.UpdatedAt = time.Now()
	b.UpdatedAt = time.Now()
	if err := h.userRepo.Upsert(a); err != nil {
		return err
	}
	return h.userRepo.Upsert(b)
}

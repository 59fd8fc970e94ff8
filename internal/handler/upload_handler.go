package handler

import (
	"net/http"
	"time"

	"gigaaura/internal/middleware"
	"gigaaura/internal/models"
	"gigaaura/internal/repository"
	"gigaaura/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UploadHandler struct {
	cloud    cloudinary.Client
	userRepo *repository.UserRepository
}

func NewUploadHandler(cloud cloudinary.Client, userRepo *repository.UserRepository) *UploadHandler {
	return &UploadHandler{cloud: cloud, userRepo: userRepo}
}

// UploadAvatar handles POST /api/profile/avatar (multipart field "file").
func (h *UploadHandler) UploadAvatar(c *gin.Context) {
	h.uploadProfileImage(c, "avatars", func(u *models.User, url string) { u.Avatar = url })
}

// UploadBanner handles POST /api/profile/banner.
func (h *UploadHandler) UploadBanner(c *gin.Context) {
	h.uploadProfileImage(c, "banners", func(u *models.User, url string) { u.BannerImage = url })
}

// uploadProfileImage is a user-waited write: failures surface as real errors.
func (h *UploadHandler) uploadProfileImage(c *gin.Context, folder string, apply func(*models.User, string)) {
	if h.cloud == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "uploads not configured"})
		return
	}
	wallet := middleware.GetWallet(c)
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read file"})
		return
	}
	defer f.Close()

	url, thumb, err := h.cloud.UploadImage(c.Request.Context(), f, folder, uuid.NewString())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
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
	apply(u, url)
	u.UpdatedAt = time.Now()
	if err := h.userRepo.Upsert(u); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "profile save failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url, "thumbnailUrl": thumb})
}

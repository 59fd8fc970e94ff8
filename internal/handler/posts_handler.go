package handler

import (
	"net/http"
	"strconv"
	"time"

	"gigaaura/internal/domain"
	"gigaaura/internal/localstore"
	"gigaaura/internal/middleware"
	"gigaaura/internal/models"
	"gigaaura/internal/repository"
	"gigaaura/internal/service"
	"gigaaura/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PostsHandler struct {
	postRepo *repository.PostRepository
	userRepo *repository.UserRepository
	cache    *localstore.Store
	auraSvc  *service.AuraService
	notifSvc *service.NotificationService
	hub      *ws.Hub
}

func NewPostsHandler(
	postRepo *repository.PostRepository,
	userRepo *repository.UserRepository,
	cache *localstore.Store,
	auraSvc *service.AuraService,
	notifSvc *service.NotificationService,
	hub *ws.Hub,
) *PostsHandler {
	return &PostsHandler{
		postRepo: postRepo,
		userRepo: userRepo,
		cache:    cache,
		auraSvc:  auraSvc,
		notifSvc: notifSvc,
		hub:      hub,
	}
}

// List handles GET /api/posts. A reachable database refreshes the cache; a
// degraded one falls back to the cached feed, and an empty cache means an
// empty feed, never an error.
func (h *PostsHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	posts, err := h.postRepo.List(limit, offset)
	if err != nil {
		if cached, ok := h.cache.ReadPosts(); ok {
			c.JSON(http.StatusOK, gin.H{"posts": cached, "warning": "serving cached posts"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"posts": []models.Post{}, "warning": "posts unavailable"})
		return
	}
	if offset == 0 {
		h.cache.WritePosts(posts)
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

func (h *PostsHandler) GetByID(c *gin.Context) {
	p, err := h.postRepo.GetByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PostsHandler) ListByAuthor(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	posts, err := h.postRepo.ListByAuthor(c.Param("wallet"), limit, offset)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"posts": []models.Post{}, "warning": "posts unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// Create handles POST /api/posts. The author earns post_created aura; a
// persistence failure is a warning, not an error, since the aura credit
// already happened.
func (h *PostsHandler) Create(c *gin.Context) {
	wallet := middleware.GetWallet(c)
	var req struct {
		Content string                 `json:"content"`
		Data    map[string]interface{} `json:"data"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content is required"})
		return
	}
	author := h.profileOf(wallet)
	post := &models.Post{
		ID:           uuid.NewString(),
		Content:      req.Content,
		AuthorWallet: wallet,
		AuthorName:   author.DisplayName(),
		CreatedAt:    time.Now(),
		LikedBy:      models.StringList{},
		SharedBy:     models.StringList{},
		Comments:     models.CommentList{},
		BookmarkedBy: models.StringList{},
		Data:         req.Data,
	}
	_, _ = h.auraSvc.Award(wallet, domain.ActionPostCreated, "", "")
	if err := h.postRepo.Save(post); err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "warning": "post not persisted remotely", "post": post})
		return
	}
	h.hub.PublishPost(domain.EventNew, post.ID)
	c.JSON(http.StatusCreated, gin.H{"success": true, "post": post})
}

// Update handles PUT /api/posts/:id with an engagement op from the
// authenticated wallet: like, unlike, share, comment, bookmark, unbookmark,
// or edit (author only).
func (h *PostsHandler) Update(c *gin.Context) {
	wallet := middleware.GetWallet(c)
	var req struct {
		Op      string `json:"op"`
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Op == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "op is required"})
		return
	}
	post, err := h.postRepo.GetByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}
	actor := h.profileOf(wallet)

	switch req.Op {
	case "like":
		if !post.LikedBy.Contains(wallet) {
			post.LikedBy = append(post.LikedBy, wallet)
			post.Likes = len(post.LikedBy)
			_, _ = h.auraSvc.Award(post.AuthorWallet, domain.ActionLikeReceived, actor.DisplayName(), wallet)
			h.notifSvc.NotifyLike(post.AuthorWallet, actor, post.ID)
		}
	case "unlike":
		post.LikedBy = post.LikedBy.Remove(wallet)
		post.Likes = len(post.LikedBy)
	case "share":
		if !post.SharedBy.Contains(wallet) {
			post.SharedBy = append(post.SharedBy, wallet)
			post.Shares = len(post.SharedBy)
			_, _ = h.auraSvc.Award(post.AuthorWallet, domain.ActionPostShared, actor.DisplayName(), wallet)
			h.notifSvc.NotifyShare(post.AuthorWallet, actor, post.ID)
		}
	case "comment":
		if req.Content == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "content is required for comments"})
			return
		}
		comment := models.Comment{
			ID:           uuid.NewString(),
			Content:      req.Content,
			AuthorWallet: wallet,
			AuthorName:   actor.DisplayName(),
			CreatedAt:    models.NewTimestamp(time.Now()),
		}
		post.Comments = append(post.Comments, comment)
		_, _ = h.auraSvc.Award(wallet, domain.ActionCommentMade, post.AuthorName, post.AuthorWallet)
		if post.AuthorWallet != wallet {
			_, _ = h.auraSvc.Award(post.AuthorWallet, domain.ActionCommentReceived, actor.DisplayName(), wallet)
		}
		h.notifSvc.NotifyComment(post.AuthorWallet, actor, post.ID, comment.ID)
	case "bookmark":
		if !post.BookmarkedBy.Contains(wallet) {
			post.BookmarkedBy = append(post.BookmarkedBy, wallet)
		}
	case "unbookmark":
		post.BookmarkedBy = post.BookmarkedBy.Remove(wallet)
	case "edit":
		if post.AuthorWallet != wallet {
			c.JSON(http.StatusForbidden, gin.H{"error": "only the author can edit"})
			return
		}
		if req.Content == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "content is required"})
			return
		}
		post.Content = req.Content
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown op"})
		return
	}

	if err := h.postRepo.Update(post); err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "warning": "update not persisted remotely", "post": post})
		return
	}
	h.hub.PublishPost(domain.EventUpdated, post.ID)
	c.JSON(http.StatusOK, gin.H{"success": true, "post": post})
}

func (h *PostsHandler) Delete(c *gin.Context) {
	wallet := middleware.GetWallet(c)
	post, err := h.postRepo.GetByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}
	if post.AuthorWallet != wallet {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the author can delete"})
		return
	}
	if err := h.postRepo.Delete(post.ID); err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "warning": "delete not persisted remotely"})
		return
	}
	h.hub.PublishPost(domain.EventUpdated, post.ID)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// profileOf returns the stored profile or a bare wallet-only stand-in.
func (h *PostsHandler) profileOf(wallet string) models.User {
	u, err := h.userRepo.Get(wallet)
	if err != nil || u == nil {
		return models.User{WalletAddress: wallet}
	}
	return *u
}

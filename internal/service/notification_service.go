package service

import (
	"log"
	"time"

	"gigaaura/internal/domain"
	"gigaaura/internal/models"
	"gigaaura/internal/repository"
	"gigaaura/internal/ws"

	"github.com/google/uuid"
)

// NotificationService persists notifications and pings the recipient's other
// sessions over the hub. Both sides are best-effort.
type NotificationService struct {
	repo *repository.NotificationRepository
	hub  *ws.Hub
}

func NewNotificationService(repo *repository.NotificationRepository, hub *ws.Hub) *NotificationService {
	return &NotificationService{repo: repo, hub: hub}
}

func (s *NotificationService) Notify(recipient string, n models.Notification) {
	if recipient == "" || recipient == n.FromWallet {
		return
	}
	n.ID = uuid.NewString()
	n.RecipientWallet = recipient
	n.Timestamp = time.Now()
	if s.repo != nil {
		if err := s.repo.Save(&n); err != nil {
			log.Printf("[notify] save failed for %s: %v", recipient, err)
		}
	}
	if s.hub != nil {
		s.hub.PublishNotification(recipient)
	}
}

func (s *NotificationService) NotifyLike(postAuthor string, from models.User, postID string) {
	s.Notify(postAuthor, models.Notification{
		Type:         domain.NotifTypeLike,
		Message:      from.DisplayName() + " liked your post",
		FromWallet:   from.WalletAddress,
		FromUsername: from.Username,
		FromAvatar:   from.Avatar,
		PostID:       postID,
	})
}

func (s *NotificationService) NotifyComment(postAuthor string, from models.User, postID, commentID string) {
	s.Notify(postAuthor, models.Notification{
		Type:         domain.NotifTypeComment,
		Message:      from.DisplayName() + " commented on your post",
		FromWallet:   from.WalletAddress,
		FromUsername: from.Username,
		FromAvatar:   from.Avatar,
		PostID:       postID,
		CommentID:    commentID,
	})
}

func (s *NotificationService) NotifyShare(postAuthor string, from models.User, postID string) {
	s.Notify(postAuthor, models.Notification{
		Type:         domain.NotifTypeShare,
		Message:      from.DisplayName() + " shared your post",
		FromWallet:   from.WalletAddress,
		FromUsername: from.Username,
		FromAvatar:   from.Avatar,
		PostID:       postID,
	})
}

func (s *NotificationService) NotifyFollow(followed string, from models.User) {
	s.Notify(followed, models.Notification{
		Type:         domain.NotifTypeFollow,
		Message:      from.DisplayName() + " followed you",
		FromWallet:   from.WalletAddress,
		FromUsername: from.Username,
		FromAvatar:   from.Avatar,
	})
}

package service

import (
	"github.com/google/uuid"
	"github.com/taskhive/backend/internal/domain"
	"github.com/taskhive/backend/internal/repository"
)

// NotificationService is the mention sink: it turns "these users were
// mentioned" into one persisted notification per target user.
type NotificationService struct {
	repo *repository.NotificationRepository
}

func NewNotificationService(repo *repository.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

// NotifyMentioned records a mention notification for each target user.
// Callers dedupe targets and exclude the comment author before calling.
func (s *NotificationService) NotifyMentioned(targetUserIDs []uuid.UUID, task *domain.Task, comment *domain.Comment) error {
	if len(targetUserIDs) == 0 {
		return nil
	}

	notifications := make([]domain.Notification, 0, len(targetUserIDs))
	for _, userID := range targetUserIDs {
		notifications = append(notifications, domain.Notification{
			UserID: userID,
			Type:   domain.NotifMention,
			TaskID: task.ID,
			Text:   "You were mentioned in a comment on task: " + task.Title,
		})
	}
	return s.repo.CreateBatch(notifications)
}

func (s *NotificationService) GetForUser(userID uuid.UUID, unreadOnly bool, page, limit int) ([]domain.Notification, int64, error) {
	return s.repo.FindByUserID(userID, unreadOnly, page, limit)
}

func (s *NotificationService) MarkAsRead(id, userID uuid.UUID) error {
	return s.repo.MarkAsRead(id, userID)
}

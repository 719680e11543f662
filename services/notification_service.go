package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/MuhammadMuzammil21/LocalBites-sub000/entity"
	"github.com/MuhammadMuzammil21/LocalBites-sub000/repository"

	"go.uber.org/zap"
)

// Publisher pushes a freshly written notification to any live in-app
// consumer (the websocket hub). Best-effort, like everything else here.
type Publisher interface {
	Publish(userID uint, n *entity.Notification)
}

// NotifData is the structured payload attached to a notification.
type NotifData struct {
	OrderID      uint   `json:"orderId,omitempty"`
	RestaurantID uint   `json:"restaurantId,omitempty"`
	ReviewID     uint   `json:"reviewId,omitempty"`
	Amount       int64  `json:"amount,omitempty"`
	TrackingCode string `json:"trackingCode,omitempty"`
}

type NotificationService struct {
	Repo *repository.NotificationRepository
	Log  *zap.SugaredLogger

	TTL time.Duration
	Pub Publisher // optional
}

func NewNotificationService(repo *repository.NotificationRepository, log *zap.SugaredLogger, ttl time.Duration) *NotificationService {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &NotificationService{Repo: repo, Log: log, TTL: ttl}
}

// Emit writes a notification record. It never returns an error: a failed
// emit is logged and swallowed so the parent transition's success is never
// coupled to it.
func (s *NotificationService) Emit(userID uint, typ entity.NotificationType, title, message string, data NotifData) {
	payload, _ := json.Marshal(data)
	n := &entity.Notification{
		UserID:    userID,
		Type:      typ,
		Title:     truncate(title, 120),
		Message:   truncate(message, 500),
		Data:      string(payload),
		Priority:  priorityFor(typ),
		ExpiresAt: time.Now().Add(s.TTL),
	}
	if err := s.Repo.Create(n); err != nil {
		s.Log.Errorw("notification emit failed", "type", typ, "user", userID, "err", err)
		return
	}
	if s.Pub != nil {
		s.Pub.Publish(userID, n)
	}
}

func priorityFor(typ entity.NotificationType) string {
	switch typ {
	case entity.NotifPaymentSuccess, entity.NotifPaymentRefund,
		entity.NotifOrderCancelled, entity.NotifOrderCancelledRefunded:
		return entity.PriorityHigh
	default:
		return entity.PriorityNormal
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

// ---- user-facing reads/writes ----

type NotificationListOut struct {
	Items []entity.Notification `json:"items"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}

func (s *NotificationService) List(userID uint, unreadOnly bool, page, limit int) (*NotificationListOut, error) {
	items, total, err := s.Repo.ListForUser(userID, unreadOnly, page, limit)
	if err != nil {
		return nil, err
	}
	return &NotificationListOut{Items: items, Total: total, Page: page, Limit: limit}, nil
}

func (s *NotificationService) UnreadCount(userID uint) (int64, error) {
	return s.Repo.UnreadCount(userID)
}

func (s *NotificationService) MarkRead(userID, id uint) error {
	_, err := s.Repo.MarkRead(userID, id)
	return err
}

func (s *NotificationService) MarkAllRead(userID uint) error {
	return s.Repo.MarkAllRead(userID)
}

func (s *NotificationService) Delete(userID, id uint) error {
	_, err := s.Repo.Delete(userID, id)
	return err
}

// ---- TTL sweep ----

// PurgeExpired removes every notification past its expiry timestamp.
func (s *NotificationService) PurgeExpired() (int64, error) {
	return s.Repo.PurgeExpired(time.Now())
}

// RunTTLSweep purges expired notifications on a ticker until ctx is done.
func (s *NotificationService) RunTTLSweep(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := s.PurgeExpired()
			if err != nil {
				s.Log.Errorw("notification ttl sweep failed", "err", err)
				continue
			}
			if n > 0 {
				s.Log.Infow("purged expired notifications", "count", n)
			}
		}
	}
}

package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/foodhub/foodhub-api/logger"
	"github.com/foodhub/foodhub-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NotificationInput describes one notification to create
type NotificationInput struct {
	SenderID   uint
	ReceiverID uint
	Message    string
	FoodID     *uint
	OrderID    *uint
}

// NotificationService stores and reads notifications
type NotificationService struct {
	db    *gorm.DB
	users *UserService
}

// NewNotificationService creates a notification service on the given database handle
func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db, users: NewUserService(db)}
}

// ResolveStaff returns the ids of every admin and owner account
func (s *NotificationService) ResolveStaff(ctx context.Context) ([]uint, error) {
	return s.users.FindByRoles(ctx, models.StaffRoles...)
}

// Notify creates one unread notification
func (s *NotificationService) Notify(ctx context.Context, in NotificationInput) (*models.Notification, error) {
	if in.SenderID == 0 || in.ReceiverID == 0 {
		return nil, ErrInvalidID
	}
	if in.Message == "" {
		return nil, NewValidationError("MISSING_FIELDS", "Message is required")
	}

	notification := models.Notification{
		SenderID:   in.SenderID,
		ReceiverID: in.ReceiverID,
		Message:    in.Message,
		FoodID:     in.FoodID,
		OrderID:    in.OrderID,
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&notification).Error; err != nil {
		return nil, NewStorageError("Failed to create notification", err)
	}
	return &notification, nil
}

// ListFor returns the notifications received by a user, newest first, with sender details
func (s *NotificationService) ListFor(ctx context.Context, userID uint) ([]models.Notification, error) {
	notifications := []models.Notification{}
	err := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Select("notifications.*, users.name AS sender_name, users.profile_image AS sender_image").
		Joins("LEFT JOIN users ON users.id = notifications.sender_id").
		Where("notifications.receiver_id = ?", userID).
		Order("notifications.created_at DESC, notifications.id DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, NewStorageError("Failed to fetch notifications", err)
	}
	return notifications, nil
}

// MarkRead flags a notification as read. The receiver is part of the update's
// WHERE clause, so another user's notification is never touched.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID uint) error {
	result := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND receiver_id = ?", id, userID).
		Update("is_read", true)
	if result.Error != nil {
		return NewStorageError("Failed to mark notification as read", result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}
	// mysql reports 0 rows for an already-read notification
	return s.checkOwnership(ctx, id, userID)
}

// Delete removes a notification owned by the user
func (s *NotificationService) Delete(ctx context.Context, id, userID uint) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND receiver_id = ?", id, userID).
		Delete(&models.Notification{})
	if result.Error != nil {
		return NewStorageError("Failed to delete notification", result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}
	if err := s.checkOwnership(ctx, id, userID); err != nil {
		return err
	}
	return ErrNotificationNotFound
}

// UnreadCount returns how many unread notifications a user has
func (s *NotificationService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("receiver_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, NewStorageError("Failed to count notifications", err)
	}
	return count, nil
}

func (s *NotificationService) checkOwnership(ctx context.Context, id, userID uint) error {
	var notification models.Notification
	if err := s.db.WithContext(ctx).Select("id", "receiver_id").First(&notification, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return NewStorageError("Failed to fetch notification", err)
	}
	if notification.ReceiverID != userID {
		return ErrAccessDenied
	}
	return nil
}

// StaffEvent is a message to fan out to every admin and owner except the actor
type StaffEvent struct {
	ActorID uint
	Message string
	OrderID *uint
	FoodID  *uint
}

// Dispatcher runs staff fan-out after the triggering operation has committed.
// Tasks run in their own goroutine on a fresh session, so they cannot join or
// influence the caller's transaction; failures are logged and dropped.
type Dispatcher struct {
	db      *gorm.DB
	timeout time.Duration
	log     *logger.Logger
	wg      sync.WaitGroup
}

var dispatcher *Dispatcher

// NewDispatcher creates a dispatcher. A zero timeout disables the per-task deadline.
func NewDispatcher(db *gorm.DB, timeout time.Duration, log *logger.Logger) *Dispatcher {
	if log == nil {
		log = logger.Get()
	}
	return &Dispatcher{db: db, timeout: timeout, log: log.WithComponent("notifications")}
}

// InitNotificationDispatcher creates the process-wide dispatcher
func InitNotificationDispatcher(db *gorm.DB, timeout time.Duration, log *logger.Logger) *Dispatcher {
	dispatcher = NewDispatcher(db, timeout, log)
	return dispatcher
}

// GetNotificationDispatcher returns the process-wide dispatcher
func GetNotificationDispatcher() *Dispatcher {
	return dispatcher
}

// SetNotificationDispatcher replaces the process-wide dispatcher (for testing)
func SetNotificationDispatcher(d *Dispatcher) {
	dispatcher = d
}

// NotifyStaff enqueues a fan-out and returns immediately
func (d *Dispatcher) NotifyStaff(ctx context.Context, event StaffEvent) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				d.log.Error("Notification task panicked", "panic", r, "actor_id", event.ActorID)
			}
		}()

		taskCtx := context.WithoutCancel(ctx)
		if d.timeout > 0 {
			var cancel context.CancelFunc
			taskCtx, cancel = context.WithTimeout(taskCtx, d.timeout)
			defer cancel()
		}

		sent, err := d.fanOut(taskCtx, event)
		if err != nil {
			d.log.Error("Staff notification failed", "error", err, "actor_id", event.ActorID, "order_id", event.OrderID, "sent", sent)
			return
		}
		d.log.Debug("Staff notified", "actor_id", event.ActorID, "order_id", event.OrderID, "sent", sent)
	}()
}

// Wait blocks until every enqueued task has finished
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// fanOut creates one notification per staff account. A failure for one receiver
// does not stop the others; the last error is returned.
func (d *Dispatcher) fanOut(ctx context.Context, event StaffEvent) (int, error) {
	notifications := NewNotificationService(d.db.Session(&gorm.Session{NewDB: true}))

	staff, err := notifications.ResolveStaff(ctx)
	if err != nil {
		return 0, err
	}

	var lastErr error
	sent := 0
	for _, receiverID := range staff {
		if receiverID == event.ActorID {
			continue
		}
		_, err := notifications.Notify(ctx, NotificationInput{
			SenderID:   event.ActorID,
			ReceiverID: receiverID,
			Message:    event.Message,
			FoodID:     event.FoodID,
			OrderID:    event.OrderID,
		})
		if err != nil {
			lastErr = err
			continue
		}
		sent++
	}
	return sent, lastErr
}

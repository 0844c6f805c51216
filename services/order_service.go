package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/foodhub/foodhub-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserInfo is the customer snapshot supplied with an order; empty fields are filled from the profile
type UserInfo struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Mobile string `json:"mobile"`
}

// PlaceOrderInput is a checkout request
type PlaceOrderInput struct {
	PaymentMethod   string
	DeliveryAddress string
	UserInfo        UserInfo
}

// PlacedOrder is the result of a successful checkout
type PlacedOrder struct {
	OrderID     uint            `json:"order_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// OrderStats aggregates every order, unfiltered
type OrderStats struct {
	TotalOrders     int64           `json:"total_orders"`
	PendingOrders   int64           `json:"pending_orders"`
	ApprovedOrders  int64           `json:"approved_orders"`
	RejectedOrders  int64           `json:"rejected_orders"`
	DeliveredOrders int64           `json:"delivered_orders"`
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
}

// StatusTransitions is the allowed-transition table of the order status machine
type StatusTransitions map[string][]string

// DefaultStatusTransitions lets a pending order be approved, rejected or delivered.
// Every other status is terminal.
func DefaultStatusTransitions() StatusTransitions {
	return StatusTransitions{
		models.OrderStatusPending: {models.OrderStatusApproved, models.OrderStatusRejected, models.OrderStatusDelivered},
	}
}

// Allows reports whether an order may move from one status to another.
// Re-applying the current status is always allowed.
func (t StatusTransitions) Allows(from, to string) bool {
	if from == to {
		return true
	}
	for _, next := range t[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Validate checks that the table only names recognized statuses
func (t StatusTransitions) Validate() error {
	for from, targets := range t {
		if !models.IsValidOrderStatus(from) {
			return fmt.Errorf("unknown order status %q in transition table", from)
		}
		for _, to := range targets {
			if !models.IsValidOrderStatus(to) {
				return fmt.Errorf("unknown order status %q in transition table", to)
			}
		}
	}
	return nil
}

// orderSnapshot is the priced cart captured once inside the checkout transaction.
// Items and total are never re-read from the catalog afterwards.
type orderSnapshot struct {
	items []models.OrderItem
	total decimal.Decimal
}

func snapshotCart(lines []CartItem) orderSnapshot {
	snap := orderSnapshot{items: make([]models.OrderItem, 0, len(lines)), total: decimal.Zero}
	for _, line := range lines {
		foodID := line.FoodID
		item := models.OrderItem{
			FoodID:    &foodID,
			FoodName:  line.FoodName,
			FoodImage: line.Image,
			Price:     line.Price,
			Quantity:  line.Quantity,
		}
		snap.items = append(snap.items, item)
		snap.total = snap.total.Add(item.LineTotal())
	}
	return snap
}

// OrderService coordinates checkout and the order status machine
type OrderService struct {
	db          *gorm.DB
	dispatcher  *Dispatcher
	transitions StatusTransitions
}

// NewOrderService creates an order service. A nil transition table uses DefaultStatusTransitions.
func NewOrderService(db *gorm.DB, dispatcher *Dispatcher, transitions StatusTransitions) *OrderService {
	if transitions == nil {
		transitions = DefaultStatusTransitions()
	}
	return &OrderService{db: db, dispatcher: dispatcher, transitions: transitions}
}

// PlaceOrder turns the user's cart into an order. The order, its items, the history
// entries and the cart clear commit together or not at all. Staff are notified after commit.
func (s *OrderService) PlaceOrder(ctx context.Context, userID uint, in PlaceOrderInput) (*PlacedOrder, error) {
	if userID == 0 {
		return nil, ErrInvalidID
	}
	in.PaymentMethod = strings.TrimSpace(in.PaymentMethod)
	in.DeliveryAddress = strings.TrimSpace(in.DeliveryAddress)
	if in.PaymentMethod == "" || in.DeliveryAddress == "" {
		return nil, NewValidationError("MISSING_FIELDS", "Payment method and delivery address are required")
	}
	if !models.IsValidPaymentMethod(in.PaymentMethod) {
		return nil, ErrInvalidPaymentMethod
	}

	info, err := s.completeUserInfo(ctx, userID, in.UserInfo)
	if err != nil {
		return nil, err
	}

	var order models.Order
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lines, err := NewCartService(tx).lockForCheckout(ctx, userID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}
		snap := snapshotCart(lines)

		order = models.Order{
			UserID:          userID,
			TotalAmount:     snap.total,
			PaymentMethod:   in.PaymentMethod,
			DeliveryAddress: in.DeliveryAddress,
			UserName:        info.Name,
			UserEmail:       info.Email,
			UserMobile:      info.Mobile,
			OrderStatus:     models.OrderStatusPending,
		}
		if err := tx.Omit(clause.Associations).Create(&order).Error; err != nil {
			return err
		}

		for i := range snap.items {
			snap.items[i].OrderID = order.ID
		}
		if err := tx.Omit(clause.Associations).Create(&snap.items).Error; err != nil {
			return err
		}
		if err := NewHistoryService(tx).Record(ctx, userID, order.ID, snap.items); err != nil {
			return err
		}
		order.Items = snap.items

		return tx.Where("user_id = ?", userID).Delete(&models.CartLine{}).Error
	})
	if err != nil {
		return nil, storageError("Failed to place order", err)
	}

	if s.dispatcher != nil {
		orderID := order.ID
		s.dispatcher.NotifyStaff(ctx, StaffEvent{
			ActorID: userID,
			Message: fmt.Sprintf("New Order #%d placed by %s. Amount: %s", order.ID, info.Name, order.TotalAmount.StringFixed(2)),
			OrderID: &orderID,
		})
	}

	return &PlacedOrder{OrderID: order.ID, TotalAmount: order.TotalAmount}, nil
}

func (s *OrderService) completeUserInfo(ctx context.Context, userID uint, info UserInfo) (UserInfo, error) {
	info.Name = strings.TrimSpace(info.Name)
	info.Email = strings.TrimSpace(info.Email)
	info.Mobile = strings.TrimSpace(info.Mobile)
	if info.Name != "" && info.Email != "" && info.Mobile != "" {
		return info, nil
	}

	profile, err := NewUserService(s.db).GetProfile(ctx, userID)
	if err != nil {
		return info, err
	}
	if info.Name == "" {
		info.Name = profile.Name
	}
	if info.Email == "" {
		info.Email = profile.Email
	}
	if info.Mobile == "" {
		info.Mobile = profile.Mobile
	}
	return info, nil
}

// UpdateStatus moves an order to a new status if the transition table allows it.
// The write is conditional on the status read, so a concurrent change is reported
// as a conflict rather than overwritten.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uint, status string) (*models.Order, error) {
	status = strings.TrimSpace(status)
	if !models.IsValidOrderStatus(status) {
		return nil, ErrInvalidStatus
	}
	if orderID == 0 {
		return nil, ErrInvalidID
	}

	var order models.Order
	if err := s.db.WithContext(ctx).First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, NewStorageError("Failed to fetch order", err)
	}
	if !s.transitions.Allows(order.OrderStatus, status) {
		return nil, &ServiceError{
			Kind:    ErrInvalidTransition.Kind,
			Code:    ErrInvalidTransition.Code,
			Message: fmt.Sprintf("Order status cannot change from %s to %s", order.OrderStatus, status),
		}
	}
	if order.OrderStatus == status {
		return s.getOrder(ctx, orderID)
	}

	result := s.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND order_status = ?", order.ID, order.OrderStatus).
		Update("order_status", status)
	if result.Error != nil {
		return nil, NewStorageError("Failed to update order status", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrInvalidTransition
	}

	return s.getOrder(ctx, orderID)
}

// GetOrder returns an order with its items to its owner or to staff
func (s *OrderService) GetOrder(ctx context.Context, orderID uint, requester Identity) (*models.Order, error) {
	if orderID == 0 {
		return nil, ErrInvalidID
	}
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !requester.CanAccess(order.UserID) {
		return nil, ErrAccessDenied
	}
	return order, nil
}

func (s *OrderService) getOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&order, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, NewStorageError("Failed to fetch order", err)
	}
	return &order, nil
}

// ListOrders returns a user's orders with items, newest first
func (s *OrderService) ListOrders(ctx context.Context, userID uint) ([]models.Order, error) {
	orders := []models.Order{}
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, NewStorageError("Failed to fetch orders", err)
	}
	return orders, nil
}

// ListAllOrders returns every order with items, newest first
func (s *OrderService) ListAllOrders(ctx context.Context) ([]models.Order, error) {
	orders := []models.Order{}
	err := s.db.WithContext(ctx).
		Preload("Items").
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, NewStorageError("Failed to fetch orders", err)
	}
	return orders, nil
}

// Stats counts orders by status and sums every order's total
func (s *OrderService) Stats(ctx context.Context) (*OrderStats, error) {
	var rows []struct {
		OrderStatus string
		Count       int64
		Revenue     decimal.NullDecimal
	}
	err := s.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("order_status, COUNT(*) AS count, SUM(total_amount) AS revenue").
		Group("order_status").
		Scan(&rows).Error
	if err != nil {
		return nil, NewStorageError("Failed to fetch order statistics", err)
	}

	stats := &OrderStats{TotalRevenue: decimal.Zero}
	for _, row := range rows {
		stats.TotalOrders += row.Count
		if row.Revenue.Valid {
			stats.TotalRevenue = stats.TotalRevenue.Add(row.Revenue.Decimal)
		}
		switch row.OrderStatus {
		case models.OrderStatusPending:
			stats.PendingOrders = row.Count
		case models.OrderStatusApproved:
			stats.ApprovedOrders = row.Count
		case models.OrderStatusRejected:
			stats.RejectedOrders = row.Count
		case models.OrderStatusDelivered:
			stats.DeliveredOrders = row.Count
		}
	}
	return stats, nil
}

package services

import (
	"context"
	"time"

	"github.com/foodhub/foodhub-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartItem is a cart line joined with the live catalog price
type CartItem struct {
	ID          uint                `json:"id"`
	FoodID      uint                `json:"food_id"`
	FoodName    string              `json:"food_name"`
	Image       *string             `json:"image"`
	ImageURL    *string             `gorm:"-" json:"image_url,omitempty"`
	Description *string             `json:"description"`
	Amount      decimal.Decimal     `json:"amount"`
	Discount    decimal.NullDecimal `json:"discount"`
	Price       decimal.Decimal     `gorm:"-" json:"price"`
	Quantity    int                 `json:"quantity"`
	CreatedAt   time.Time           `json:"created_at"`
}

// CartTotal aggregates a cart at current catalog prices
type CartTotal struct {
	ItemCount   int             `json:"item_count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// CartService is the per-user food -> quantity store. It is the source of truth until checkout.
type CartService struct {
	db      *gorm.DB
	catalog *CatalogService
}

// NewCartService creates a cart service on the given database handle
func NewCartService(db *gorm.DB) *CartService {
	return &CartService{db: db, catalog: NewCatalogService(db)}
}

// AddItem adds qty of a food to the user's cart and returns the resulting quantity
func (s *CartService) AddItem(ctx context.Context, userID, foodID uint, qty int) (int, error) {
	if userID == 0 || foodID == 0 {
		return 0, ErrInvalidID
	}
	if qty <= 0 {
		return 0, ErrInvalidQuantity
	}
	if _, err := s.catalog.GetFood(ctx, foodID); err != nil {
		return 0, err
	}

	var result int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// A single upsert keeps concurrent first-adds of the same food from racing on idx_cart_user_food
		line := models.CartLine{UserID: userID, FoodID: foodID, Quantity: qty}
		err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "food_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity":   gorm.Expr("cart.quantity + ?", qty),
				"updated_at": time.Now(),
			}),
		}).Create(&line).Error
		if err != nil {
			return err
		}
		var stored models.CartLine
		if err := tx.Where("user_id = ? AND food_id = ?", userID, foodID).Take(&stored).Error; err != nil {
			return err
		}
		result = stored.Quantity
		return nil
	})
	if err != nil {
		return 0, NewStorageError("Failed to add item to cart", err)
	}
	return result, nil
}

// UpdateQuantity sets the quantity of a line. A non-positive qty removes the line,
// and is a no-op when the line does not exist.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, foodID uint, qty int) error {
	if userID == 0 || foodID == 0 {
		return ErrInvalidID
	}
	if qty <= 0 {
		return s.RemoveItem(ctx, userID, foodID)
	}

	err := s.db.WithContext(ctx).
		Model(&models.CartLine{}).
		Where("user_id = ? AND food_id = ?", userID, foodID).
		Update("quantity", qty).Error
	if err != nil {
		return NewStorageError("Failed to update cart quantity", err)
	}
	return nil
}

// RemoveItem deletes one line; removing an absent line is not an error
func (s *CartService) RemoveItem(ctx context.Context, userID, foodID uint) error {
	if userID == 0 || foodID == 0 {
		return ErrInvalidID
	}
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND food_id = ?", userID, foodID).
		Delete(&models.CartLine{}).Error
	if err != nil {
		return NewStorageError("Failed to remove item from cart", err)
	}
	return nil
}

// ClearCart deletes every line of the user's cart
func (s *CartService) ClearCart(ctx context.Context, userID uint) error {
	if userID == 0 {
		return ErrInvalidID
	}
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartLine{}).Error; err != nil {
		return NewStorageError("Failed to clear cart", err)
	}
	return nil
}

// GetCart returns the user's lines priced from the catalog as it is now, newest first
func (s *CartService) GetCart(ctx context.Context, userID uint) ([]CartItem, error) {
	if userID == 0 {
		return nil, ErrInvalidID
	}
	items, err := s.query(s.db.WithContext(ctx), userID)
	if err != nil {
		return nil, NewStorageError("Failed to get cart", err)
	}
	return items, nil
}

// GetCartTotal returns the number of lines and their total at current prices
func (s *CartService) GetCartTotal(ctx context.Context, userID uint) (*CartTotal, error) {
	items, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	return SummarizeCart(items), nil
}

// lockForCheckout reads the cart like GetCart but takes row locks on the cart lines,
// so a concurrent checkout of the same cart waits for this transaction to finish.
func (s *CartService) lockForCheckout(ctx context.Context, userID uint) ([]CartItem, error) {
	return s.query(s.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "cart"}}), userID)
}

func (s *CartService) query(db *gorm.DB, userID uint) ([]CartItem, error) {
	items := []CartItem{}
	err := db.Table("cart").
		Select(`cart.id, cart.quantity, cart.created_at,
			foods.id AS food_id, foods.name AS food_name, foods.image,
			foods.description, foods.amount, foods.discount`).
		Joins("JOIN foods ON foods.id = cart.food_id").
		Where("cart.user_id = ?", userID).
		Order("cart.created_at DESC, cart.id DESC").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Price = models.EffectivePrice(items[i].Amount, items[i].Discount)
	}
	return items, nil
}

// SummarizeCart totals already-priced cart lines
func SummarizeCart(items []CartItem) *CartTotal {
	total := &CartTotal{ItemCount: len(items), TotalAmount: decimal.Zero}
	for _, item := range items {
		total.TotalAmount = total.TotalAmount.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

package repositories

import (
	"fmt"

	"github.com/CreativeDragon1/Earn2Die/internal/models"
	"github.com/CreativeDragon1/Earn2Die/pkg/errors"
	"gorm.io/gorm"
)

type TradeRepository struct {
	db *gorm.DB
}

func NewTradeRepository(db *gorm.DB) *TradeRepository {
	return &TradeRepository{db: db}
}

// ListingFilter narrows the marketplace listing query. Only active
// listings are returned.
type ListingFilter struct {
	Category string
	Search   string
	MinPrice int64
	MaxPrice int64
}

// CreateListing puts a new listing on the marketplace
func (r *TradeRepository) CreateListing(listing *models.TradeListing) error {
	listing.Status = models.ListingStatusActive
	if err := r.db.Create(listing).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create listing")
	}
	return nil
}

// GetListingByID retrieves a listing with its seller preloaded
func (r *TradeRepository) GetListingByID(id uint) (*models.TradeListing, error) {
	var listing models.TradeListing
	if err := r.db.Preload("Seller").First(&listing, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New(errors.ErrCodeNotFound, "listing not found")
		}
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get listing")
	}
	return &listing, nil
}

// ListListings browses active marketplace listings
func (r *TradeRepository) ListListings(filter ListingFilter) ([]models.TradeListing, error) {
	query := r.db.Preload("Seller").
		Where("status = ?", models.ListingStatusActive).
		Order("created_at DESC")

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Search != "" {
		query = query.Where("item_name LIKE ?", "%"+filter.Search+"%")
	}
	if filter.MinPrice > 0 {
		query = query.Where("price >= ?", filter.MinPrice)
	}
	if filter.MaxPrice > 0 {
		query = query.Where("price <= ?", filter.MaxPrice)
	}

	var listings []models.TradeListing
	if err := query.Find(&listings).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list marketplace")
	}
	return listings, nil
}

// Purchase settles a currency purchase atomically: the settlement record,
// both balance movements and the listing decrement commit together or not
// at all. The listing and the buyer balance are re-checked with conditional
// updates immediately before the decrement, so concurrent purchases can
// never oversell or overdraw.
func (r *TradeRepository) Purchase(listingID, buyerID uint, quantity int) (*models.TradeTransaction, error) {
	var settled *models.TradeTransaction
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var listing models.TradeListing
		if err := tx.First(&listing, listingID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.New(errors.ErrCodeNotFound, "listing not found or no longer active")
			}
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to get listing")
		}

		if listing.Status != models.ListingStatusActive {
			return errors.New(errors.ErrCodeNotFound, "listing not found or no longer active")
		}
		if listing.IsBarter {
			return errors.New(errors.ErrCodeValidation,
				"this is a barter listing; arrange the exchange in-game then record it with the seller")
		}
		if listing.SellerID == buyerID {
			return errors.New(errors.ErrCodeValidation, "cannot buy your own listing")
		}
		if quantity > listing.Quantity {
			return errors.New(errors.ErrCodeConflict, "not enough quantity available")
		}

		totalPrice := listing.Price * int64(quantity)

		// Debit the buyer only if the balance covers the total
		debit := tx.Model(&models.Player{}).
			Where("id = ? AND balance >= ?", buyerID, totalPrice).
			Update("balance", gorm.Expr("balance - ?", totalPrice))
		if debit.Error != nil {
			return errors.Wrap(debit.Error, errors.ErrCodeInternalError, "failed to debit buyer")
		}
		if debit.RowsAffected == 0 {
			return errors.New(errors.ErrCodeInsufficientFunds,
				fmt.Sprintf("insufficient balance: need %d %s", totalPrice, listing.PreferredCurrency))
		}

		credit := tx.Model(&models.Player{}).
			Where("id = ?", listing.SellerID).
			Update("balance", gorm.Expr("balance + ?", totalPrice))
		if credit.Error != nil {
			return errors.Wrap(credit.Error, errors.ErrCodeInternalError, "failed to credit seller")
		}
		if credit.RowsAffected == 0 {
			return errors.New(errors.ErrCodeNotFound, "seller not found")
		}

		// Decrement only if the remaining quantity still covers the order
		decrement := tx.Model(&models.TradeListing{}).
			Where("id = ? AND status = ? AND quantity >= ?", listingID, models.ListingStatusActive, quantity).
			Update("quantity", gorm.Expr("quantity - ?", quantity))
		if decrement.Error != nil {
			return errors.Wrap(decrement.Error, errors.ErrCodeInternalError, "failed to update listing")
		}
		if decrement.RowsAffected == 0 {
			return errors.New(errors.ErrCodeConflict, "not enough quantity available")
		}

		if err := tx.Model(&models.TradeListing{}).
			Where("id = ? AND quantity = 0", listingID).
			Update("status", models.ListingStatusSold).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to close out listing")
		}

		txn := &models.TradeTransaction{
			ListingID:  listingID,
			BuyerID:    buyerID,
			SellerID:   listing.SellerID,
			Quantity:   quantity,
			TotalPrice: totalPrice,
		}
		if err := tx.Create(txn).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to record settlement")
		}

		settled = txn
		return nil
	})
	if err != nil {
		return nil, err
	}
	return settled, nil
}

// CancelListing takes a listing off the marketplace. Irreversible; settled
// transactions are unaffected.
func (r *TradeRepository) CancelListing(listingID uint) error {
	result := r.db.Model(&models.TradeListing{}).
		Where("id = ? AND status = ?", listingID, models.ListingStatusActive).
		Update("status", models.ListingStatusCancelled)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to cancel listing")
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeConflict, "listing is not active")
	}
	return nil
}

// GetTransactions lists a listing's settlement history, newest first
func (r *TradeRepository) GetTransactions(listingID uint, limit int) ([]models.TradeTransaction, error) {
	var transactions []models.TradeTransaction
	if err := r.db.Preload("Buyer").Where("listing_id = ?", listingID).
		Order("completed_at DESC").Limit(limit).Find(&transactions).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get transactions")
	}
	return transactions, nil
}

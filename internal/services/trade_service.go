package services

import (
	"github.com/CreativeDragon1/Earn2Die/internal/models"
	"github.com/CreativeDragon1/Earn2Die/internal/repositories"
	"github.com/CreativeDragon1/Earn2Die/internal/security"
	"github.com/CreativeDragon1/Earn2Die/pkg/errors"
)

type TradeService struct {
	repo *repositories.TradeRepository
}

func NewTradeService(repo *repositories.TradeRepository) *TradeService {
	return &TradeService{repo: repo}
}

type CreateListingInput struct {
	ItemName          string `json:"itemName"`
	Description       string `json:"description"`
	Category          string `json:"category"`
	Quantity          int    `json:"quantity"`
	TownID            uint   `json:"townId"`
	IsBarter          bool   `json:"isBarter"`
	Price             int64  `json:"price"`
	PreferredCurrency string `json:"preferredCurrency"`
	BarterItemName    string `json:"barterItemName"`
	BarterQuantity    int    `json:"barterQuantity"`
}

// CreateListing puts an item up for sale. A listing settles in exactly one
// mode: barter listings need a target item and quantity, currency listings
// need a positive price.
func (s *TradeService) CreateListing(sellerID uint, input CreateListingInput) (*models.TradeListing, error) {
	input.ItemName = security.SanitizeString(input.ItemName)
	if input.ItemName == "" || len(input.ItemName) > 100 {
		return nil, errors.New(errors.ErrCodeValidation, "item name must be 1 to 100 characters")
	}
	if len(input.Description) > 500 {
		return nil, errors.New(errors.ErrCodeValidation, "description must be at most 500 characters")
	}
	if input.Category == "" {
		input.Category = models.CategoryMisc
	}
	if !models.IsValidCategory(input.Category) {
		return nil, errors.New(errors.ErrCodeValidation, "invalid category")
	}
	if input.Quantity <= 0 {
		input.Quantity = 1
	}
	if input.PreferredCurrency == "" {
		input.PreferredCurrency = models.CurrencyDiamonds
	}
	if !models.IsValidCurrency(input.PreferredCurrency) {
		return nil, errors.New(errors.ErrCodeValidation, "invalid currency")
	}

	if input.IsBarter {
		if input.BarterItemName == "" || input.BarterQuantity <= 0 {
			return nil, errors.New(errors.ErrCodeValidation,
				"barter trades require barterItemName and a positive barterQuantity")
		}
	} else if input.Price <= 0 {
		return nil, errors.New(errors.ErrCodeValidation, "currency trades require a positive price")
	}

	listing := &models.TradeListing{
		SellerID:          sellerID,
		TownID:            input.TownID,
		ItemName:          input.ItemName,
		Description:       security.SanitizeProse(input.Description),
		Category:          input.Category,
		Quantity:          input.Quantity,
		IsBarter:          input.IsBarter,
		Price:             input.Price,
		PreferredCurrency: input.PreferredCurrency,
		BarterItemName:    security.SanitizeString(input.BarterItemName),
		BarterQuantity:    input.BarterQuantity,
	}
	if err := s.repo.CreateListing(listing); err != nil {
		return nil, err
	}
	return listing, nil
}

// Buy purchases a quantity from a currency listing. Settlement is atomic:
// the transaction record, both balance movements and the listing decrement
// commit together.
func (s *TradeService) Buy(buyerID, listingID uint, quantity int) (*models.TradeTransaction, error) {
	if quantity <= 0 {
		return nil, errors.New(errors.ErrCodeValidation, "quantity must be positive")
	}
	return s.repo.Purchase(listingID, buyerID, quantity)
}

// Cancel takes a listing off the marketplace. Seller or admin only.
func (s *TradeService) Cancel(callerID uint, callerRole string, listingID uint) error {
	listing, err := s.repo.GetListingByID(listingID)
	if err != nil {
		return err
	}
	if listing.SellerID != callerID && callerRole != models.RoleAdmin {
		return errors.New(errors.ErrCodeForbidden, "only the seller or admin can cancel a listing")
	}
	return s.repo.CancelListing(listingID)
}

// GetListing returns a listing with its recent settlement history
func (s *TradeService) GetListing(listingID uint) (*models.TradeListing, []models.TradeTransaction, error) {
	listing, err := s.repo.GetListingByID(listingID)
	if err != nil {
		return nil, nil, err
	}
	transactions, err := s.repo.GetTransactions(listingID, 10)
	if err != nil {
		return nil, nil, err
	}
	return listing, transactions, nil
}

// ListListings browses the marketplace
func (s *TradeService) ListListings(filter repositories.ListingFilter) ([]models.TradeListing, error) {
	return s.repo.ListListings(filter)
}

package models

import (
	"time"
)

type TradeListing struct {
	ID                uint   `gorm:"primaryKey"`
	SellerID          uint   `gorm:"not null;index"`
	Seller            Player `gorm:"foreignKey:SellerID"`
	TownID            uint   `gorm:"default:0"` // optional storefront town
	ItemName          string `gorm:"type:varchar(100);not null"`
	Description       string `gorm:"type:text"`
	Category          string `gorm:"type:varchar(20);default:'misc';not null;index"`
	Quantity          int    `gorm:"default:1;not null"`
	IsBarter          bool   `gorm:"default:false;not null"`
	Price             int64  `gorm:"default:0;not null"`
	PreferredCurrency string `gorm:"type:varchar(20);default:'diamonds';not null"`
	BarterItemName    string `gorm:"type:varchar(100)"`
	BarterQuantity    int    `gorm:"default:0;not null"`
	Status            string `gorm:"type:varchar(20);default:'active';not null;index"`
	CreatedAt         time.Time `gorm:"autoCreateTime"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime"`
}

// TradeTransaction is an immutable settlement record, created only inside
// the purchase transaction.
type TradeTransaction struct {
	ID          uint         `gorm:"primaryKey"`
	ListingID   uint         `gorm:"not null;index"`
	Listing     TradeListing `gorm:"foreignKey:ListingID"`
	BuyerID     uint         `gorm:"not null;index"`
	Buyer       Player       `gorm:"foreignKey:BuyerID"`
	SellerID    uint         `gorm:"not null;index"`
	Quantity    int          `gorm:"not null"`
	TotalPrice  int64        `gorm:"not null"`
	CompletedAt time.Time    `gorm:"autoCreateTime"`
}

// Listing statuses
const (
	ListingStatusActive    = "active"
	ListingStatusSold      = "sold"
	ListingStatusCancelled = "cancelled"
)

// Listing categories
const (
	CategoryWeapons  = "weapons"
	CategoryArmor    = "armor"
	CategoryTools    = "tools"
	CategoryBlocks   = "blocks"
	CategoryFood     = "food"
	CategoryPotions  = "potions"
	CategoryEnchants = "enchants"
	CategoryMisc     = "misc"
)

// Accepted settlement currencies
const (
	CurrencyDiamonds = "diamonds"
	CurrencyIron     = "iron"
	CurrencyGold     = "gold"
	CurrencyEmeralds = "emeralds"
	CurrencyOther    = "other"
)

func IsValidCategory(category string) bool {
	switch category {
	case CategoryWeapons, CategoryArmor, CategoryTools, CategoryBlocks,
		CategoryFood, CategoryPotions, CategoryEnchants, CategoryMisc:
		return true
	}
	return false
}

func IsValidCurrency(currency string) bool {
	switch currency {
	case CurrencyDiamonds, CurrencyIron, CurrencyGold, CurrencyEmeralds, CurrencyOther:
		return true
	}
	return false
}

func (TradeListing) TableName() string {
	return "trade_listings"
}

func (TradeTransaction) TableName() string {
	return "trade_transactions"
}

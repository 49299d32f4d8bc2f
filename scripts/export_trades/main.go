package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/xuri/excelize/v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/CreativeDragon1/Earn2Die/internal/models"
)

// Exports the trade ledger to an xlsx file for the server staff.
// Usage: go run scripts/export_trades/main.go [output.xlsx]
func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	output := "trade_ledger.xlsx"
	if len(os.Args) > 1 {
		output = os.Args[1]
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		os.Getenv("DB_HOST"), os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"), os.Getenv("DB_PORT"))

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect database:", err)
	}

	var transactions []models.TradeTransaction
	if err := db.Preload("Listing").Preload("Buyer").
		Order("completed_at ASC").
		Find(&transactions).Error; err != nil {
		log.Fatal("failed to load transactions:", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Transactions"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"ID", "Completed At", "Item", "Category", "Quantity", "Total Price", "Currency", "Buyer", "Seller ID"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for i, tx := range transactions {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), tx.ID)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), tx.CompletedAt.Format(time.RFC3339))
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), tx.Listing.ItemName)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), tx.Listing.Category)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), tx.Quantity)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), tx.TotalPrice)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), tx.Listing.PreferredCurrency)
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), tx.Buyer.Username)
		f.SetCellValue(sheet, fmt.Sprintf("I%d", row), tx.SellerID)
	}

	if err := f.SaveAs(output); err != nil {
		log.Fatal("failed to write file:", err)
	}

	fmt.Printf("Exported %d transactions to %s\n", len(transactions), output)
}

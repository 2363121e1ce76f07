package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"mithqal/internal/metals"
	"mithqal/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestPortfolio creates an active portfolio in AED.
func CreateTestPortfolio(t *testing.T, db *gorm.DB, userID uint) *models.Portfolio {
	t.Helper()

	portfolio := &models.Portfolio{
		UserID:       userID,
		Name:         fmt.Sprintf("Test Portfolio %d", nextID()),
		BaseCurrency: "AED",
		IsActive:     true,
	}
	if err := db.Create(portfolio).Error; err != nil {
		t.Fatalf("failed to create test portfolio: %v", err)
	}
	return portfolio
}

// CreateTestBuy creates a buy record in ounces at a per-ounce price.
func CreateTestBuy(t *testing.T, db *gorm.DB, portfolioID uint, symbol metals.Symbol, qtyOz, pricePerOz float64) *models.MetalTransaction {
	t.Helper()
	return CreateTestTransaction(t, db, portfolioID, symbol, metals.SideBuy, qtyOz, pricePerOz, time.Now())
}

// CreateTestSell creates a sell record in ounces at a per-ounce price.
func CreateTestSell(t *testing.T, db *gorm.DB, portfolioID uint, symbol metals.Symbol, qtyOz, pricePerOz float64) *models.MetalTransaction {
	t.Helper()
	return CreateTestTransaction(t, db, portfolioID, symbol, metals.SideSell, qtyOz, pricePerOz, time.Now())
}

// CreateTestTransaction creates a metal transaction with zero fees in
// ounce units on the given trade date.
func CreateTestTransaction(t *testing.T, db *gorm.DB, portfolioID uint, symbol metals.Symbol, side metals.Side, qtyOz, pricePerOz float64, tradeDate time.Time) *models.MetalTransaction {
	t.Helper()

	tx := &models.MetalTransaction{
		PortfolioID:  portfolioID,
		Symbol:       symbol,
		Side:         side,
		TradeDate:    tradeDate,
		Quantity:     qtyOz,
		QuantityUnit: metals.UnitOz,
		Price:        pricePerOz,
		PriceUnit:    metals.PricePerOz,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestPrice records a spot price for the given metal.
func CreateTestPrice(t *testing.T, db *gorm.DB, symbol metals.Symbol, pricePerOz float64) *models.MetalPrice {
	t.Helper()
	return CreateTestPriceAt(t, db, symbol, pricePerOz, time.Now())
}

// CreateTestPriceAt records a spot price with an explicit timestamp.
func CreateTestPriceAt(t *testing.T, db *gorm.DB, symbol metals.Symbol, pricePerOz float64, recordedAt time.Time) *models.MetalPrice {
	t.Helper()

	price := &models.MetalPrice{
		Symbol:     symbol,
		PricePerOz: pricePerOz,
		Currency:   "AED",
		Source:     "test",
		RecordedAt: recordedAt,
	}
	if err := db.Create(price).Error; err != nil {
		t.Fatalf("failed to create test price: %v", err)
	}
	return price
}

package services

import (
	"context"
	"time"

	"mithqal/internal/metals"
	"mithqal/internal/models"
	"mithqal/internal/pagination"
	"mithqal/internal/provider"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID uint, tokenHash string) error
	GetRefreshTokenHash(userID uint) (string, error)
}

// PortfolioServicer defines the contract for portfolio-related business logic.
type PortfolioServicer interface {
	CreatePortfolio(userID uint, name, description, baseCurrency string, priceDeviationPct float64) (*models.Portfolio, error)
	GetUserPortfolios(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Portfolio], error)
	GetPortfolioByID(userID, portfolioID uint) (*models.Portfolio, error)
	UpdatePortfolio(userID, portfolioID uint, name, description string, priceDeviationPct *float64) (*models.Portfolio, error)
	DeletePortfolio(userID, portfolioID uint) error
}

// TransactionFilter holds optional filter parameters for listing metal transactions.
type TransactionFilter struct {
	Symbol   *metals.Symbol
	Side     *metals.Side
	FromDate *time.Time
	ToDate   *time.Time
}

// TransactionServicer defines the contract for metal-transaction business logic.
// Create and Update run the pre-trade validator against the instrument's
// current holding and latest price; an invalid candidate returns the
// validation result alongside ErrTransactionInvalid, a valid one returns
// the stored record with any advisory warnings.
type TransactionServicer interface {
	CreateTransaction(userID, portfolioID uint, candidate metals.Candidate, notes string) (*models.MetalTransaction, *metals.ValidationResult, error)
	GetPortfolioTransactions(userID, portfolioID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.MetalTransaction], error)
	GetTransactionByID(userID, transactionID uint) (*models.MetalTransaction, error)
	UpdateTransaction(userID, transactionID uint, candidate metals.Candidate, notes string) (*models.MetalTransaction, *metals.ValidationResult, error)
	DeleteTransaction(userID, transactionID uint) error
	ValidateCandidate(userID, portfolioID uint, candidate metals.Candidate) (*metals.ValidationResult, error)
}

// PriceServicer defines the contract for spot-price business logic.
type PriceServicer interface {
	RecordPrice(symbol metals.Symbol, pricePerOz float64, currency, source string, recordedAt time.Time) (*models.MetalPrice, error)
	GetLatestPrice(symbol metals.Symbol) (*models.MetalPrice, error)
	GetLatestPrices() (map[metals.Symbol]float64, error)
	GetPriceHistory(symbol metals.Symbol, from, to time.Time, page pagination.PageRequest) (*pagination.PageResponse[models.MetalPrice], error)
	RefreshSpotPrices(ctx context.Context) (int, []provider.FetchError, error)
}

// SummaryServicer defines the contract for valuation queries. Every call
// re-derives positions from the full ordered transaction history; nothing
// is cached between requests.
type SummaryServicer interface {
	GetInstrumentLedger(userID, portfolioID uint, symbol metals.Symbol) (*metals.History, error)
	GetInstrumentSummary(userID, portfolioID uint, symbol metals.Symbol) (*metals.InstrumentSummary, error)
	GetPortfolioSummary(userID, portfolioID uint) (*metals.PortfolioSummary, error)
}

// SnapshotServicer defines the contract for portfolio valuation snapshots.
type SnapshotServicer interface {
	ComputeAndRecordSnapshots(recordedAt time.Time) (int, error)
	GetSnapshots(userID, portfolioID uint, from, to time.Time, page pagination.PageRequest) (*pagination.PageResponse[models.PortfolioSnapshot], error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]interface{})
}

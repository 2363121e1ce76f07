package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "mithqal/internal/errors"
	"mithqal/internal/models"
	"mithqal/internal/pagination"
)

// portfolioService handles portfolio-related business logic.
type portfolioService struct {
	db *gorm.DB
}

// NewPortfolioService creates a new PortfolioServicer.
func NewPortfolioService(db *gorm.DB) PortfolioServicer {
	return &portfolioService{db: db}
}

// CreatePortfolio creates a new portfolio for a user. An empty base
// currency defaults to AED; a zero deviation threshold means the
// validator's default applies.
func (s *portfolioService) CreatePortfolio(userID uint, name, description, baseCurrency string, priceDeviationPct float64) (*models.Portfolio, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "portfolio name is required")
	}
	if priceDeviationPct < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "price deviation threshold cannot be negative")
	}
	if baseCurrency == "" {
		baseCurrency = "AED"
	}

	portfolio := &models.Portfolio{
		UserID:            userID,
		Name:              name,
		Description:       description,
		BaseCurrency:      baseCurrency,
		PriceDeviationPct: priceDeviationPct,
		IsActive:          true,
	}

	if err := s.db.Create(portfolio).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return portfolio, nil
}

// GetUserPortfolios returns a paginated list of the user's active portfolios.
func (s *portfolioService) GetUserPortfolios(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Portfolio], error) {
	page.Defaults()

	base := s.db.Model(&models.Portfolio{}).Where("user_id = ? AND is_active = ?", userID, true)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var portfolios []models.Portfolio
	if err := base.Order("created_at ASC").Scopes(pagination.Paginate(page)).Find(&portfolios).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(portfolios, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetPortfolioByID returns a portfolio if it belongs to the user.
func (s *portfolioService) GetPortfolioByID(userID, portfolioID uint) (*models.Portfolio, error) {
	var portfolio models.Portfolio
	if err := s.db.First(&portfolio, portfolioID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPortfolioNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if portfolio.UserID != userID {
		return nil, apperrors.ErrPortfolioNotFound
	}

	return &portfolio, nil
}

// UpdatePortfolio updates a portfolio's name, description, and deviation
// threshold. A nil threshold leaves the current value in place.
func (s *portfolioService) UpdatePortfolio(userID, portfolioID uint, name, description string, priceDeviationPct *float64) (*models.Portfolio, error) {
	portfolio, err := s.GetPortfolioByID(userID, portfolioID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if name != "" {
		updates["name"] = name
	}
	if description != "" {
		updates["description"] = description
	}
	if priceDeviationPct != nil {
		if *priceDeviationPct < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "price deviation threshold cannot be negative")
		}
		updates["price_deviation_pct"] = *priceDeviationPct
	}

	if len(updates) > 0 {
		if err := s.db.Model(portfolio).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return portfolio, nil
}

// DeletePortfolio soft-deletes a portfolio and marks it inactive.
func (s *portfolioService) DeletePortfolio(userID, portfolioID uint) error {
	portfolio, err := s.GetPortfolioByID(userID, portfolioID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if txErr := tx.Model(portfolio).Update("is_active", false).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}
		if txErr := tx.Delete(portfolio).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}
		return nil
	})
	return err
}

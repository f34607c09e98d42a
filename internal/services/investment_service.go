package services

import (
	"github.com/shopspring/decimal"

	"github.com/vikasavnish/flowguide/internal/models"
	"github.com/vikasavnish/flowguide/internal/netsim"
	"github.com/vikasavnish/flowguide/internal/store"
)

// InvestmentService defines the interface for investment operations
type InvestmentService interface {
	GetInvestments(userID string) ([]models.Investment, error)
	CreateInvestment(investment models.Investment) (*models.Investment, error)
	UpdateInvestment(id string, updates map[string]any) (*models.Investment, error)
	DeleteInvestment(id string) error
	GetTotalInvestmentValue(userID string) (decimal.Decimal, error)
}

type investmentService struct {
	investments table[models.Investment]
}

// NewInvestmentService creates a new investment service
func NewInvestmentService(st *store.Store, net *netsim.Network) InvestmentService {
	return &investmentService{
		investments: newTable[models.Investment](st, net, store.Investments, newestFirst("created_at")),
	}
}

func (s *investmentService) GetInvestments(userID string) ([]models.Investment, error) {
	return s.investments.list(userID, 0, nil)
}

func (s *investmentService) CreateInvestment(investment models.Investment) (*models.Investment, error) {
	return s.investments.create(investment)
}

func (s *investmentService) UpdateInvestment(id string, updates map[string]any) (*models.Investment, error) {
	return s.investments.update(id, updates)
}

func (s *investmentService) DeleteInvestment(id string) error {
	return s.investments.delete(id)
}

// GetTotalInvestmentValue sums current_value over every holding.
func (s *investmentService) GetTotalInvestmentValue(userID string) (decimal.Decimal, error) {
	return s.investments.sum(userID, nil, field("current_value"))
}

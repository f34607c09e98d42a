package services

import (
	"github.com/shopspring/decimal"

	"github.com/vikasavnish/flowguide/internal/models"
	"github.com/vikasavnish/flowguide/internal/netsim"
	"github.com/vikasavnish/flowguide/internal/store"
)

// TransactionService defines the interface for income and expense entries
type TransactionService interface {
	GetTransactions(userID string, limit int) ([]models.Transaction, error)
	CreateTransaction(txn models.Transaction) (*models.Transaction, error)
	UpdateTransaction(id string, updates map[string]any) (*models.Transaction, error)
	DeleteTransaction(id string) error
	GetBalance(userID string) (decimal.Decimal, error)
}

type transactionService struct {
	transactions table[models.Transaction]
}

// NewTransactionService creates a new transaction service
func NewTransactionService(st *store.Store, net *netsim.Network) TransactionService {
	return &transactionService{
		transactions: newTable[models.Transaction](st, net, store.Transactions,
			thenBy(newestFirst("date"), newestFirst("created_at"))),
	}
}

// GetTransactions returns the newest transactions first. A limit of zero or
// less means the default of 50.
func (s *transactionService) GetTransactions(userID string, limit int) ([]models.Transaction, error) {
	if limit <= 0 {
		limit = defaultTransactionLimit
	}
	return s.transactions.list(userID, limit, nil)
}

func (s *transactionService) CreateTransaction(txn models.Transaction) (*models.Transaction, error) {
	return s.transactions.create(txn)
}

func (s *transactionService) UpdateTransaction(id string, updates map[string]any) (*models.Transaction, error) {
	return s.transactions.update(id, updates)
}

func (s *transactionService) DeleteTransaction(id string) error {
	return s.transactions.delete(id)
}

// GetBalance is total income minus total expenses across every transaction
// of the user, unlimited.
func (s *transactionService) GetBalance(userID string) (decimal.Decimal, error) {
	return s.transactions.sum(userID, nil, func(r store.Record) decimal.Decimal {
		value := amount(r, "amount")
		if r.String("type") == models.TransactionIncome {
			return value
		}
		return value.Neg()
	})
}

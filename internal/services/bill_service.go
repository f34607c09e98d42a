package services

import (
	"github.com/vikasavnish/flowguide/internal/models"
	"github.com/vikasavnish/flowguide/internal/netsim"
	"github.com/vikasavnish/flowguide/internal/store"
)

// BillService defines the interface for bill operations
type BillService interface {
	GetBills(userID string) ([]models.Bill, error)
	CreateBill(bill models.Bill) (*models.Bill, error)
	UpdateBill(id string, updates map[string]any) (*models.Bill, error)
	DeleteBill(id string) error
}

type billService struct {
	bills table[models.Bill]
}

// NewBillService creates a new bill service. Bills come back soonest due
// first, ties broken by id.
func NewBillService(st *store.Store, net *netsim.Network) BillService {
	return &billService{
		bills: newTable[models.Bill](st, net, store.Bills, thenBy(oldestFirst("due_date"), ascending("id"))),
	}
}

func (s *billService) GetBills(userID string) ([]models.Bill, error) {
	return s.bills.list(userID, 0, nil)
}

func (s *billService) CreateBill(bill models.Bill) (*models.Bill, error) {
	return s.bills.create(bill)
}

func (s *billService) UpdateBill(id string, updates map[string]any) (*models.Bill, error) {
	return s.bills.update(id, updates)
}

func (s *billService) DeleteBill(id string) error {
	return s.bills.delete(id)
}

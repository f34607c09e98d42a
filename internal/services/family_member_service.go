package services

import (
	"github.com/shopspring/decimal"

	"github.com/vikasavnish/flowguide/internal/models"
	"github.com/vikasavnish/flowguide/internal/netsim"
	"github.com/vikasavnish/flowguide/internal/store"
)

// FamilyMemberService defines the interface for family member operations
type FamilyMemberService interface {
	GetFamilyMembers(userID string) ([]models.FamilyMember, error)
	CreateFamilyMember(member models.FamilyMember) (*models.FamilyMember, error)
	UpdateFamilyMember(id string, updates map[string]any) (*models.FamilyMember, error)
	DeleteFamilyMember(id string) error
	GetTotalFamilyIncome(userID string) (decimal.Decimal, error)
}

// familyMemberService implements the FamilyMemberService interface
type familyMemberService struct {
	members table[models.FamilyMember]
}

// NewFamilyMemberService creates a new family member service. Members are
// listed in the order they were added.
func NewFamilyMemberService(st *store.Store, net *netsim.Network) FamilyMemberService {
	return &familyMemberService{
		members: newTable[models.FamilyMember](st, net, store.FamilyMembers, oldestFirst("created_at")),
	}
}

// GetFamilyMembers returns all family members for a user
func (s *familyMemberService) GetFamilyMembers(userID string) ([]models.FamilyMember, error) {
	return s.members.list(userID, 0, nil)
}

// CreateFamilyMember creates a new family member
func (s *familyMemberService) CreateFamilyMember(member models.FamilyMember) (*models.FamilyMember, error) {
	return s.members.create(member)
}

// UpdateFamilyMember updates a family member
func (s *familyMemberService) UpdateFamilyMember(id string, updates map[string]any) (*models.FamilyMember, error) {
	return s.members.update(id, updates)
}

// DeleteFamilyMember deletes a family member
func (s *familyMemberService) DeleteFamilyMember(id string) error {
	return s.members.delete(id)
}

// GetTotalFamilyIncome sums monthly_income over active members.
func (s *familyMemberService) GetTotalFamilyIncome(userID string) (decimal.Decimal, error) {
	active := func(r store.Record) bool {
		isActive, _ := r["is_active"].(bool)
		return isActive
	}
	return s.members.sum(userID, active, field("monthly_income"))
}

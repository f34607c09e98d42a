package services

import (
	"github.com/vikasavnish/flowguide/internal/models"
	"github.com/vikasavnish/flowguide/internal/netsim"
	"github.com/vikasavnish/flowguide/internal/store"
)

// GoalService defines the interface for savings goal operations
type GoalService interface {
	GetGoals(userID string) ([]models.Goal, error)
	CreateGoal(goal models.Goal) (*models.Goal, error)
	UpdateGoal(id string, updates map[string]any) (*models.Goal, error)
	DeleteGoal(id string) error
}

type goalService struct {
	goals table[models.Goal]
}

// NewGoalService creates a new goal service
func NewGoalService(st *store.Store, net *netsim.Network) GoalService {
	return &goalService{goals: newTable[models.Goal](st, net, store.Goals, newestFirst("created_at"))}
}

func (s *goalService) GetGoals(userID string) ([]models.Goal, error) {
	return s.goals.list(userID, 0, nil)
}

func (s *goalService) CreateGoal(goal models.Goal) (*models.Goal, error) {
	return s.goals.create(goal)
}

// UpdateGoal replaces the given fields. Progress is sent as the new absolute
// current_amount, not a delta.
func (s *goalService) UpdateGoal(id string, updates map[string]any) (*models.Goal, error) {
	return s.goals.update(id, updates)
}

func (s *goalService) DeleteGoal(id string) error {
	return s.goals.delete(id)
}

package services

import (
	"github.com/vikasavnish/flowguide/internal/models"
	"github.com/vikasavnish/flowguide/internal/netsim"
	"github.com/vikasavnish/flowguide/internal/store"
)

// AlertService defines the interface for alert operations
type AlertService interface {
	GetAlerts(userID string) ([]models.Alert, error)
	GetUnreadAlerts(userID string) ([]models.Alert, error)
	CreateAlert(alert models.Alert) (*models.Alert, error)
	MarkAlertAsRead(id string) error
	DeleteAlert(id string) error
}

type alertService struct {
	alerts table[models.Alert]
}

// NewAlertService creates a new alert service
func NewAlertService(st *store.Store, net *netsim.Network) AlertService {
	return &alertService{alerts: newTable[models.Alert](st, net, store.Alerts, newestFirst("created_at"))}
}

func (s *alertService) GetAlerts(userID string) ([]models.Alert, error) {
	return s.alerts.list(userID, 0, nil)
}

func (s *alertService) GetUnreadAlerts(userID string) ([]models.Alert, error) {
	return s.alerts.list(userID, 0, func(r store.Record) bool {
		read, _ := r["is_read"].(bool)
		return !read
	})
}

// CreateAlert stores a new alert. Alerts start unread unless the caller
// says otherwise.
func (s *alertService) CreateAlert(alert models.Alert) (*models.Alert, error) {
	return s.alerts.create(alert)
}

func (s *alertService) MarkAlertAsRead(id string) error {
	updated, err := s.alerts.update(id, map[string]any{"is_read": true})
	if err != nil {
		return err
	}
	if updated == nil {
		return ErrNotFound
	}
	return nil
}

func (s *alertService) DeleteAlert(id string) error {
	return s.alerts.delete(id)
}

package tasks

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/vikasavnish/flowguide/internal/models"
	"github.com/vikasavnish/flowguide/internal/services"
	"github.com/vikasavnish/flowguide/internal/store"
)

const BillReminderName = "bill-reminder"

// BillReminderTask raises a bill_due alert for every upcoming bill that
// falls due inside the lookahead window.
type BillReminderTask struct {
	store     *store.Store
	alerts    services.AlertService
	interval  time.Duration
	lookahead int
	logger    *zap.Logger

	mu       sync.Mutex
	stopChan chan struct{}
	running  bool
}

func NewBillReminderTask(st *store.Store, alerts services.AlertService, interval time.Duration, lookaheadDays int, logger *zap.Logger) *BillReminderTask {
	if logger == nil {
		logger = zap.L()
	}
	return &BillReminderTask{
		store:     st,
		alerts:    alerts,
		interval:  interval,
		lookahead: lookaheadDays,
		logger:    logger,
	}
}

func (t *BillReminderTask) Name() string { return BillReminderName }

// Start begins the reminder loop
func (t *BillReminderTask) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return
	}
	t.running = true
	t.stopChan = make(chan struct{})
	stop := t.stopChan

	go func() {
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()

		t.tick()
		for {
			select {
			case <-ticker.C:
				t.tick()
			case <-stop:
				return
			}
		}
	}()

	t.logger.Info("Bill reminder task started", zap.Duration("interval", t.interval))
}

// Stop terminates the reminder loop
func (t *BillReminderTask) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return
	}
	close(t.stopChan)
	t.running = false
	t.logger.Info("Bill reminder task stopped")
}

func (t *BillReminderTask) tick() {
	if err := t.RunOnce(); err != nil {
		t.logger.Warn("Bill reminder pass failed", zap.Error(err))
	}
}

// RunOnce scans every user's bills once.
func (t *BillReminderTask) RunOnce() error {
	rows, err := t.store.GetTable(store.Bills)
	if err != nil {
		return err
	}

	now := t.store.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	horizon := today.AddDate(0, 0, t.lookahead)

	existing := map[string]map[string]bool{}
	created := 0
	for _, row := range rows {
		bill, err := store.Decode[models.Bill](row)
		if err != nil || bill.Status != models.BillUpcoming {
			continue
		}
		due := store.ParseTime(bill.DueDate)
		if due.IsZero() || due.Before(today) || due.After(horizon) {
			continue
		}

		titles, ok := existing[bill.UserID]
		if !ok {
			titles, err = t.alertTitles(bill.UserID)
			if err != nil {
				return err
			}
			existing[bill.UserID] = titles
		}

		title := "Upcoming bill: " + bill.Name
		if titles[title] {
			continue
		}
		if _, err := t.alerts.CreateAlert(models.Alert{
			UserID:   bill.UserID,
			Type:     models.AlertBillDue,
			Title:    title,
			Message:  fmt.Sprintf("%s of $%s is due on %s.", bill.Name, bill.Amount.StringFixed(2), due.Format("Jan 2")),
			Severity: models.SeverityWarning,
		}); err != nil {
			return err
		}
		titles[title] = true
		created++
	}

	if created > 0 {
		t.logger.Info("Created bill reminders", zap.Int("count", created))
	}
	return nil
}

func (t *BillReminderTask) alertTitles(userID string) (map[string]bool, error) {
	alerts, err := t.alerts.GetAlerts(userID)
	if err != nil {
		return nil, err
	}
	titles := make(map[string]bool, len(alerts))
	for _, a := range alerts {
		titles[a.Title] = true
	}
	return titles, nil
}

package services

import (
	"github.com/vikasavnish/flowguide/internal/models"
	"github.com/vikasavnish/flowguide/internal/netsim"
	"github.com/vikasavnish/flowguide/internal/store"
)

// ReportService covers generated artifacts: monthly reports, receipts,
// budget plans and spending forecasts.
type ReportService interface {
	GetMonthlyReports(userID string) ([]models.MonthlyReport, error)
	GetMonthlyReport(userID, month string) (*models.MonthlyReport, error)
	CreateMonthlyReport(report models.MonthlyReport) (*models.MonthlyReport, error)

	GetReceipts(userID string) ([]models.Receipt, error)
	CreateReceipt(receipt models.Receipt) (*models.Receipt, error)
	DeleteReceipt(id string) error

	GetBudgetPlans(userID string) ([]models.BudgetPlan, error)
	CreateBudgetPlan(plan models.BudgetPlan) (*models.BudgetPlan, error)

	GetSpendingForecasts(userID string) ([]models.SpendingForecast, error)
	CreateSpendingForecast(forecast models.SpendingForecast) (*models.SpendingForecast, error)
}

type reportService struct {
	reports   table[models.MonthlyReport]
	receipts  table[models.Receipt]
	plans     table[models.BudgetPlan]
	forecasts table[models.SpendingForecast]
}

func NewReportService(st *store.Store, net *netsim.Network) ReportService {
	return &reportService{
		reports: newTable[models.MonthlyReport](st, net, store.MonthlyReports, periodDesc("month")),
		receipts: newTable[models.Receipt](st, net, store.Receipts,
			thenBy(newestFirst("date"), newestFirst("created_at"))),
		plans:     newTable[models.BudgetPlan](st, net, store.BudgetPlans, newestFirst("created_at")),
		forecasts: newTable[models.SpendingForecast](st, net, store.SpendingForecasts, periodDesc("forecast_month")),
	}
}

// GetMonthlyReports returns reports newest month first.
func (s *reportService) GetMonthlyReports(userID string) ([]models.MonthlyReport, error) {
	return s.reports.list(userID, 0, nil)
}

// GetMonthlyReport returns the user's report for month ("YYYY-MM"), or nil.
func (s *reportService) GetMonthlyReport(userID, month string) (*models.MonthlyReport, error) {
	return s.reports.first(userID, func(r store.Record) bool {
		return r.String("month") == month
	})
}

func (s *reportService) CreateMonthlyReport(report models.MonthlyReport) (*models.MonthlyReport, error) {
	return s.reports.create(report)
}

func (s *reportService) GetReceipts(userID string) ([]models.Receipt, error) {
	return s.receipts.list(userID, 0, nil)
}

func (s *reportService) CreateReceipt(receipt models.Receipt) (*models.Receipt, error) {
	return s.receipts.create(receipt)
}

func (s *reportService) DeleteReceipt(id string) error {
	return s.receipts.delete(id)
}

func (s *reportService) GetBudgetPlans(userID string) ([]models.BudgetPlan, error) {
	return s.plans.list(userID, 0, nil)
}

func (s *reportService) CreateBudgetPlan(plan models.BudgetPlan) (*models.BudgetPlan, error) {
	return s.plans.create(plan)
}

func (s *reportService) GetSpendingForecasts(userID string) ([]models.SpendingForecast, error) {
	return s.forecasts.list(userID, 0, nil)
}

func (s *reportService) CreateSpendingForecast(forecast models.SpendingForecast) (*models.SpendingForecast, error) {
	return s.forecasts.create(forecast)
}

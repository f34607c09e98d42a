package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Transaction struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	MemberID    *string         `json:"member_id"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Category    *string         `json:"category"`
	Description *string         `json:"description"`
	Date        string          `json:"date"`
	CreatedAt   string          `json:"created_at"`
}

type Bill struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
	DueDate   string          `json:"due_date"`
	Status    string          `json:"status"`
	Category  *string         `json:"category"`
	CreatedAt string          `json:"created_at"`
}

type Goal struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	Deadline      *string         `json:"deadline"`
	CreatedAt     string          `json:"created_at"`
}

type Alert struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Severity  string `json:"severity"`
	IsRead    bool   `json:"is_read"`
	CreatedAt string `json:"created_at"`
}

// Receipt is a scanned purchase. ExtractedData is whatever the scanner
// pulled off the image.
type Receipt struct {
	ID            string              `json:"id"`
	UserID        string              `json:"user_id"`
	ImageURL      *string             `json:"image_url"`
	Amount        decimal.Decimal     `json:"amount"`
	Merchant      *string             `json:"merchant"`
	Date          string              `json:"date"`
	Category      *string             `json:"category"`
	TaxAmount     decimal.NullDecimal `json:"tax_amount"`
	ExtractedData datatypes.JSONMap   `json:"extracted_data"`
	CreatedAt     string              `json:"created_at"`
}

// BudgetPlan percentages and splits map a bucket name to a whole percent.
type BudgetPlan struct {
	ID                  string              `json:"id"`
	UserID              string              `json:"user_id"`
	Age                 *int                `json:"age"`
	Income              decimal.Decimal     `json:"income"`
	Responsibilities    *string             `json:"responsibilities"`
	FixedExpenses       decimal.NullDecimal `json:"fixed_expenses"`
	Lifestyle           *string             `json:"lifestyle"`
	BudgetPercentages   datatypes.JSONMap   `json:"budget_percentages"`
	SavingsPlan         *string             `json:"savings_plan"`
	EmergencyFundTarget decimal.NullDecimal `json:"emergency_fund_target"`
	InvestmentSplit     datatypes.JSONMap   `json:"investment_split"`
	CreatedAt           string              `json:"created_at"`
}

type SpendingForecast struct {
	ID                string              `json:"id"`
	UserID            string              `json:"user_id"`
	ForecastMonth     string              `json:"forecast_month"`
	PredictedExpenses decimal.Decimal     `json:"predicted_expenses"`
	PredictedIncome   decimal.NullDecimal `json:"predicted_income"`
	CashShortageDate  *string             `json:"cash_shortage_date"`
	OverspendRisk     *string             `json:"overspend_risk"`
	SafeToSpend       decimal.NullDecimal `json:"safe_to_spend"`
	ConfidenceScore   decimal.NullDecimal `json:"confidence_score"`
	CreatedAt         string              `json:"created_at"`
}

// MonthlyReport summarizes one calendar month, keyed by "YYYY-MM".
type MonthlyReport struct {
	ID                    string              `json:"id"`
	UserID                string              `json:"user_id"`
	Month                 string              `json:"month"`
	TotalIncome           decimal.Decimal     `json:"total_income"`
	TotalExpenses         decimal.Decimal     `json:"total_expenses"`
	BiggestCategory       *string             `json:"biggest_category"`
	BiggestCategoryAmount decimal.NullDecimal `json:"biggest_category_amount"`
	GoodHabits            []string            `json:"good_habits"`
	BadHabits             []string            `json:"bad_habits"`
	Suggestions           []string            `json:"suggestions"`
	CreatedAt             string              `json:"created_at"`
}

package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/vikasavnish/flowguide/internal/models"
	"github.com/vikasavnish/flowguide/internal/netsim"
	"github.com/vikasavnish/flowguide/internal/store"
)

// BudgetInput is what the budget generator asks the user for.
type BudgetInput struct {
	Age              *int            `json:"age"`
	Income           decimal.Decimal `json:"income"`
	Responsibilities *string         `json:"responsibilities"`
	FixedExpenses    decimal.Decimal `json:"fixed_expenses"`
	Lifestyle        string          `json:"lifestyle"`
}

// HealthScore is the dashboard's 0-100 rating of a household's finances.
type HealthScore struct {
	Score          int    `json:"score"`
	Level          string `json:"level"`
	Recommendation string `json:"recommendation"`
}

// PlannerService produces the templated insights: budget plans, forecasts,
// monthly reports, health scores, advice answers and receipt scans. All
// outputs are deterministic given the stored data, the clock and the rand.
type PlannerService interface {
	GenerateBudgetPlan(userID string, in BudgetInput) (*models.BudgetPlan, error)
	GenerateSpendingForecast(userID string) (*models.SpendingForecast, error)
	GenerateMonthlyReport(userID string) (*models.MonthlyReport, error)
	HealthScore(userID string) (*HealthScore, error)
	AskAdvice(userID, category, question string) (*models.AdviceHistory, error)
	ScanReceipt(userID string, imageURL *string) (*models.Receipt, error)
}

type plannerService struct {
	transactions TransactionService
	goals        GoalService
	members      FamilyMemberService
	investments  InvestmentService
	reports      ReportService
	history      HistoryService
	now          func() time.Time
	rng          netsim.Rand
}

const historyWindow = 1000

var (
	receiptMerchants  = []string{"Starbucks", "Walmart", "Amazon", "Target", "Whole Foods"}
	receiptCategories = []string{"Food", "Shopping", "Groceries", "Entertainment"}
)

func (s *plannerService) GenerateBudgetPlan(userID string, in BudgetInput) (*models.BudgetPlan, error) {
	if !in.Income.IsPositive() {
		return nil, fmt.Errorf("%w: income must be positive", ErrInvalidInput)
	}

	age := in.Age
	if age != nil && *age <= 0 {
		age = nil
	}
	lifestyle := in.Lifestyle
	if lifestyle == "" {
		lifestyle = "moderate"
	}
	savingsPlan := fmt.Sprintf(
		"Based on your income of $%s, we recommend saving $%s per month (20%% of income). "+
			"This will help you build a strong financial foundation.",
		in.Income.StringFixed(2), in.Income.Mul(decimal.NewFromFloat(0.2)).StringFixed(2))

	return s.reports.CreateBudgetPlan(models.BudgetPlan{
		UserID:           userID,
		Age:              age,
		Income:           in.Income,
		Responsibilities: nonEmpty(in.Responsibilities),
		FixedExpenses:    decimal.NewNullDecimal(in.FixedExpenses),
		Lifestyle:        &lifestyle,
		BudgetPercentages: datatypes.JSONMap{
			"housing":        30,
			"food":           15,
			"transportation": 10,
			"savings":        20,
			"entertainment":  10,
			"healthcare":     5,
			"other":          10,
		},
		SavingsPlan:         &savingsPlan,
		EmergencyFundTarget: decimal.NewNullDecimal(in.Income.Mul(decimal.NewFromInt(6))),
		InvestmentSplit:     datatypes.JSONMap{"stocks": 60, "bonds": 30, "cash": 10},
	})
}

func (s *plannerService) GenerateSpendingForecast(userID string) (*models.SpendingForecast, error) {
	txns, err := s.transactions.GetTransactions(userID, historyWindow)
	if err != nil {
		return nil, err
	}
	balance, err := s.transactions.GetBalance(userID)
	if err != nil {
		return nil, err
	}

	expenses := recentTotal(txns, models.TransactionExpense, 30)
	if expenses.IsZero() {
		expenses = decimal.NewFromInt(1000)
	}
	income := recentTotal(txns, models.TransactionIncome, 30)
	if income.IsZero() {
		income = decimal.NewFromInt(2000)
	}
	predicted := expenses.Mul(decimal.NewFromFloat(1.05))

	now := s.now()
	var shortage *string
	if balance.IsPositive() {
		daily := expenses.Div(decimal.NewFromInt(30))
		days := balance.Div(daily).Floor()
		if days.IsPositive() && days.LessThan(decimal.NewFromInt(60)) {
			date := now.AddDate(0, 1, 0).Format("2006-01-02")
			shortage = &date
		}
	}

	risk := "Low"
	switch {
	case predicted.GreaterThan(income.Mul(decimal.NewFromFloat(0.9))):
		risk = "High"
	case predicted.GreaterThan(income.Mul(decimal.NewFromFloat(0.7))):
		risk = "Medium"
	}

	return s.reports.CreateSpendingForecast(models.SpendingForecast{
		UserID:            userID,
		ForecastMonth:     startOfMonth(now).AddDate(0, 1, 0).Format("2006-01"),
		PredictedExpenses: predicted,
		PredictedIncome:   decimal.NewNullDecimal(income),
		CashShortageDate:  shortage,
		OverspendRisk:     &risk,
		SafeToSpend:       decimal.NewNullDecimal(decimal.Max(decimal.Zero, income.Sub(predicted))),
		ConfidenceScore:   decimal.NewNullDecimal(decimal.NewFromFloat(0.75)),
	})
}

// GenerateMonthlyReport summarizes the previous calendar month.
func (s *plannerService) GenerateMonthlyReport(userID string) (*models.MonthlyReport, error) {
	txns, err := s.transactions.GetTransactions(userID, historyWindow)
	if err != nil {
		return nil, err
	}

	start := startOfMonth(s.now()).AddDate(0, -1, 0)
	end := start.AddDate(0, 1, 0)

	income, expenses := decimal.Zero, decimal.Zero
	count := 0
	var categories []string
	totals := map[string]decimal.Decimal{}
	for _, t := range txns {
		date := store.ParseTime(t.Date)
		if date.Before(start) || !date.Before(end) {
			continue
		}
		count++
		if t.Type == models.TransactionIncome {
			income = income.Add(t.Amount)
			continue
		}
		if t.Type != models.TransactionExpense {
			continue
		}
		expenses = expenses.Add(t.Amount)
		if t.Category == nil || *t.Category == "" {
			continue
		}
		if _, seen := totals[*t.Category]; !seen {
			categories = append(categories, *t.Category)
		}
		totals[*t.Category] = totals[*t.Category].Add(t.Amount)
	}

	var biggest *string
	biggestAmount := decimal.NullDecimal{}
	for _, c := range categories {
		if !biggestAmount.Valid || totals[c].GreaterThan(biggestAmount.Decimal) {
			name := c
			biggest = &name
			biggestAmount = decimal.NewNullDecimal(totals[c])
		}
	}

	good := []string{}
	if income.GreaterThan(expenses) {
		good = append(good, "Maintained positive cash flow")
	}
	if count > 10 {
		good = append(good, "Actively tracking expenses")
	}
	good = append(good, "Consistent financial monitoring")

	bad := []string{}
	if expenses.GreaterThan(income) {
		bad = append(bad, "Spending exceeded income")
	}
	if biggest != nil && biggestAmount.Decimal.GreaterThan(income.Mul(decimal.NewFromFloat(0.4))) {
		bad = append(bad, "High spending in "+*biggest)
	}

	suggestions := []string{"Great job! Consider increasing savings"}
	if expenses.GreaterThan(income) {
		suggestions[0] = "Consider reducing discretionary spending"
	}
	if biggest != nil {
		suggestions = append(suggestions, fmt.Sprintf("Review your %s expenses for optimization", *biggest))
	} else {
		suggestions = append(suggestions, "Track your expenses by category for better insights")
	}
	suggestions = append(suggestions, "Set up automatic savings transfers")

	return s.reports.CreateMonthlyReport(models.MonthlyReport{
		UserID:                userID,
		Month:                 start.Format("2006-01"),
		TotalIncome:           income,
		TotalExpenses:         expenses,
		BiggestCategory:       biggest,
		BiggestCategoryAmount: biggestAmount,
		GoodHabits:            good,
		BadHabits:             bad,
		Suggestions:           suggestions,
	})
}

func (s *plannerService) HealthScore(userID string) (*HealthScore, error) {
	txns, err := s.transactions.GetTransactions(userID, 0)
	if err != nil {
		return nil, err
	}
	goals, err := s.goals.GetGoals(userID)
	if err != nil {
		return nil, err
	}
	members, err := s.members.GetFamilyMembers(userID)
	if err != nil {
		return nil, err
	}
	investments, err := s.investments.GetInvestments(userID)
	if err != nil {
		return nil, err
	}

	income := recentTotal(txns, models.TransactionIncome, len(txns))
	expenses := recentTotal(txns, models.TransactionExpense, len(txns))
	balance := income.Sub(expenses)

	completed := 0
	for _, g := range goals {
		if g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount) {
			completed++
		}
	}
	progress := 0.0
	if len(goals) > 0 {
		progress = float64(completed) / float64(len(goals)) * 100
	}

	return scoreHealth(income, expenses, balance, progress, len(investments), len(members)), nil
}

func scoreHealth(income, expenses, balance decimal.Decimal, goalProgress float64, investments, members int) *HealthScore {
	score := 50

	if income.IsPositive() {
		ratio := expenses.Div(income)
		switch {
		case ratio.LessThan(decimal.NewFromFloat(0.5)):
			score += 20
		case ratio.LessThan(decimal.NewFromFloat(0.7)):
			score += 15
		case ratio.LessThan(decimal.NewFromFloat(0.9)):
			score += 10
		}
	}

	switch {
	case balance.GreaterThan(decimal.NewFromInt(5000)):
		score += 15
	case balance.GreaterThan(decimal.NewFromInt(2000)):
		score += 10
	case balance.IsPositive():
		score += 5
	}

	switch {
	case goalProgress >= 75:
		score += 15
	case goalProgress >= 50:
		score += 10
	case goalProgress >= 25:
		score += 5
	}

	score += min(10, investments*3)
	score += min(10, members*2)
	score = min(100, score)

	switch {
	case score >= 80:
		return &HealthScore{Score: score, Level: "Excellent", Recommendation: "Keep up the great financial habits!"}
	case score >= 60:
		return &HealthScore{Score: score, Level: "Good", Recommendation: "Consider increasing your savings rate"}
	case score >= 40:
		return &HealthScore{Score: score, Level: "Fair", Recommendation: "Work on reducing expenses"}
	default:
		return &HealthScore{Score: score, Level: "Poor", Recommendation: "Focus on building your emergency fund"}
	}
}

// AskAdvice answers a question from a fixed template per category and keeps
// the exchange in the advice history.
func (s *plannerService) AskAdvice(userID, category, question string) (*models.AdviceHistory, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is required", ErrInvalidInput)
	}

	txns, err := s.transactions.GetTransactions(userID, 0)
	if err != nil {
		return nil, err
	}
	balance, err := s.transactions.GetBalance(userID)
	if err != nil {
		return nil, err
	}
	income := recentTotal(txns, models.TransactionIncome, len(txns))
	expenses := recentTotal(txns, models.TransactionExpense, len(txns))

	var answer string
	switch category {
	case models.AdviceSavings:
		answer = fmt.Sprintf(
			"With a balance of $%s and recent income of $%s, set aside $%s (20%% of income) each month. Automate the transfer on payday.",
			balance.StringFixed(2), income.StringFixed(2), income.Mul(decimal.NewFromFloat(0.2)).StringFixed(2))
	case models.AdviceEmergency:
		answer = fmt.Sprintf(
			"Your recent expenses are $%s. A six-month emergency fund would be $%s and you currently hold $%s.",
			expenses.StringFixed(2), expenses.Mul(decimal.NewFromInt(6)).StringFixed(2), balance.StringFixed(2))
	case models.AdvicePlanning:
		surplus := income.Sub(expenses)
		if surplus.IsPositive() {
			answer = fmt.Sprintf(
				"You are running a surplus of $%s. Direct half of it, $%s, to your top goal and keep the rest liquid.",
				surplus.StringFixed(2), surplus.Div(decimal.NewFromInt(2)).StringFixed(2))
		} else {
			answer = fmt.Sprintf(
				"Expenses exceed income by $%s. Trim discretionary spending before committing to new goals.",
				surplus.Neg().StringFixed(2))
		}
	default:
		return nil, fmt.Errorf("%w: unknown advice category %q", ErrInvalidInput, category)
	}

	return s.history.CreateAdviceHistory(models.AdviceHistory{
		UserID:   userID,
		Category: category,
		Question: question,
		Answer:   answer,
	})
}

// ScanReceipt simulates extracting a receipt from an image and records both
// the receipt and a matching expense.
func (s *plannerService) ScanReceipt(userID string, imageURL *string) (*models.Receipt, error) {
	amt := decimal.NewFromFloat(s.rng.Float64()*100 + 10).Round(2)
	merchant := receiptMerchants[s.rng.IntN(len(receiptMerchants))]
	category := receiptCategories[s.rng.IntN(len(receiptCategories))]
	tax := decimal.NewFromFloat(s.rng.Float64() * 10).Round(2)
	date := s.now().Format("2006-01-02")

	receipt, err := s.reports.CreateReceipt(models.Receipt{
		UserID:    userID,
		ImageURL:  nonEmpty(imageURL),
		Amount:    amt,
		Merchant:  &merchant,
		Date:      date,
		Category:  &category,
		TaxAmount: decimal.NewNullDecimal(tax),
		ExtractedData: datatypes.JSONMap{
			"amount":   amt.StringFixed(2),
			"merchant": merchant,
			"date":     date,
			"category": category,
			"tax":      tax.StringFixed(2),
		},
	})
	if err != nil {
		return nil, err
	}

	description := "Receipt from " + merchant
	if _, err := s.transactions.CreateTransaction(models.Transaction{
		UserID:      userID,
		Type:        models.TransactionExpense,
		Amount:      amt,
		Category:    &category,
		Description: &description,
		Date:        date,
	}); err != nil {
		return receipt, fmt.Errorf("receipt saved but expense not recorded: %w", err)
	}
	return receipt, nil
}

// recentTotal sums the first n transactions of kind, in list order.
func recentTotal(txns []models.Transaction, kind string, n int) decimal.Decimal {
	total := decimal.Zero
	seen := 0
	for _, t := range txns {
		if t.Type != kind {
			continue
		}
		if seen == n {
			break
		}
		total = total.Add(t.Amount)
		seen++
	}
	return total
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func nonEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}

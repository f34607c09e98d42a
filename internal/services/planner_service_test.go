package services

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vikasavnish/flowguide/internal/models"
	"github.com/vikasavnish/flowguide/internal/store"
)

func TestGenerateBudgetPlan(t *testing.T) {
	svc, _ := newTestServices(t)

	age := 34
	plan, err := svc.Planner.GenerateBudgetPlan("u1", BudgetInput{
		Age:           &age,
		Income:        decimal.NewFromInt(5000),
		FixedExpenses: decimal.NewFromInt(1800),
	})
	if err != nil {
		t.Fatalf("GenerateBudgetPlan() error = %v", err)
	}
	if !plan.EmergencyFundTarget.Valid || !plan.EmergencyFundTarget.Decimal.Equal(decimal.NewFromInt(30000)) {
		t.Errorf("emergency fund = %v, want 30000", plan.EmergencyFundTarget)
	}
	if plan.SavingsPlan == nil || !strings.Contains(*plan.SavingsPlan, "$1000.00") {
		t.Errorf("savings plan = %v", plan.SavingsPlan)
	}
	if plan.Lifestyle == nil || *plan.Lifestyle != "moderate" {
		t.Errorf("lifestyle default = %v", plan.Lifestyle)
	}
	total := decimal.Zero
	for _, v := range plan.BudgetPercentages {
		total = total.Add(decimal.RequireFromString(fmt.Sprint(v)))
	}
	if !total.Equal(decimal.NewFromInt(100)) {
		t.Errorf("budget percentages sum to %v", total)
	}

	plans, _ := svc.Reports.GetBudgetPlans("u1")
	if len(plans) != 1 || plans[0].ID != plan.ID {
		t.Errorf("plan not persisted: %+v", plans)
	}
}

func TestGenerateBudgetPlanRejectsIncome(t *testing.T) {
	svc, _ := newTestServices(t)

	for _, income := range []int64{0, -100} {
		_, err := svc.Planner.GenerateBudgetPlan("u1", BudgetInput{Income: decimal.NewFromInt(income)})
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("income %d error = %v, want ErrInvalidInput", income, err)
		}
	}
}

func TestGenerateSpendingForecast(t *testing.T) {
	st := newTestStore(t, store.DefaultSeed)
	svc := New(st, nil, stubRand{})

	forecast, err := svc.Planner.GenerateSpendingForecast("demo-alex")
	if err != nil {
		t.Fatalf("GenerateSpendingForecast() error = %v", err)
	}

	// Seeded expenses 3640.63 and income 6600.
	if want := decimal.RequireFromString("3822.6615"); !forecast.PredictedExpenses.Equal(want) {
		t.Errorf("predicted expenses = %s, want %s", forecast.PredictedExpenses, want)
	}
	if forecast.ForecastMonth != "2025-04" {
		t.Errorf("forecast month = %s", forecast.ForecastMonth)
	}
	if forecast.OverspendRisk == nil || *forecast.OverspendRisk != "Low" {
		t.Errorf("risk = %v, want Low", forecast.OverspendRisk)
	}
	if want := decimal.RequireFromString("2777.3385"); !forecast.SafeToSpend.Decimal.Equal(want) {
		t.Errorf("safe to spend = %s, want %s", forecast.SafeToSpend.Decimal, want)
	}
	if forecast.CashShortageDate == nil || *forecast.CashShortageDate != "2025-04-10" {
		t.Errorf("cash shortage date = %v", forecast.CashShortageDate)
	}
}

func TestGenerateSpendingForecastDefaults(t *testing.T) {
	svc, _ := newTestServices(t)

	forecast, err := svc.Planner.GenerateSpendingForecast("u1")
	if err != nil {
		t.Fatalf("GenerateSpendingForecast() error = %v", err)
	}
	// No history: 1000 expenses and 2000 income are assumed.
	if !forecast.PredictedExpenses.Equal(decimal.NewFromInt(1050)) {
		t.Errorf("predicted expenses = %s", forecast.PredictedExpenses)
	}
	if forecast.CashShortageDate != nil {
		t.Errorf("zero balance should not predict a shortage, got %s", *forecast.CashShortageDate)
	}
	if *forecast.OverspendRisk != "Low" {
		t.Errorf("risk = %s", *forecast.OverspendRisk)
	}
}

func TestGenerateMonthlyReport(t *testing.T) {
	svc, _ := newTestServices(t)

	food, rent := "Food", "Rent"
	txns := []models.Transaction{
		{UserID: "u1", Type: models.TransactionIncome, Amount: decimal.NewFromInt(1000), Date: "2025-02-05"},
		{UserID: "u1", Type: models.TransactionExpense, Amount: decimal.NewFromInt(300), Category: &food, Date: "2025-02-10"},
		{UserID: "u1", Type: models.TransactionExpense, Amount: decimal.NewFromInt(500), Category: &rent, Date: "2025-02-20"},
		{UserID: "u1", Type: models.TransactionExpense, Amount: decimal.NewFromInt(999), Category: &food, Date: "2025-03-02"},
		{UserID: "u2", Type: models.TransactionExpense, Amount: decimal.NewFromInt(5000), Category: &food, Date: "2025-02-11"},
	}
	for _, txn := range txns {
		if _, err := svc.Transactions.CreateTransaction(txn); err != nil {
			t.Fatalf("CreateTransaction() error = %v", err)
		}
	}

	report, err := svc.Planner.GenerateMonthlyReport("u1")
	if err != nil {
		t.Fatalf("GenerateMonthlyReport() error = %v", err)
	}
	if report.Month != "2025-02" {
		t.Errorf("month = %s, want 2025-02", report.Month)
	}
	if !report.TotalIncome.Equal(decimal.NewFromInt(1000)) || !report.TotalExpenses.Equal(decimal.NewFromInt(800)) {
		t.Errorf("totals = %s / %s", report.TotalIncome, report.TotalExpenses)
	}
	if report.BiggestCategory == nil || *report.BiggestCategory != "Rent" {
		t.Errorf("biggest category = %v", report.BiggestCategory)
	}
	wantGood := []string{"Maintained positive cash flow", "Consistent financial monitoring"}
	if strings.Join(report.GoodHabits, "|") != strings.Join(wantGood, "|") {
		t.Errorf("good habits = %v", report.GoodHabits)
	}
	if len(report.BadHabits) != 1 || report.BadHabits[0] != "High spending in Rent" {
		t.Errorf("bad habits = %v", report.BadHabits)
	}
	if len(report.Suggestions) != 3 || report.Suggestions[1] != "Review your Rent expenses for optimization" {
		t.Errorf("suggestions = %v", report.Suggestions)
	}

	stored, _ := svc.Reports.GetMonthlyReport("u1", "2025-02")
	if stored == nil || stored.ID != report.ID {
		t.Error("report should be persisted")
	}
}

func TestScoreHealth(t *testing.T) {
	d := decimal.NewFromFloat
	tests := []struct {
		name        string
		income      decimal.Decimal
		expenses    decimal.Decimal
		progress    float64
		investments int
		members     int
		wantScore   int
		wantLevel   string
	}{
		{"empty", d(0), d(0), 0, 0, 0, 50, "Fair"},
		{"overspending", d(100), d(200), 0, 0, 0, 50, "Fair"},
		{"seeded household", d(6600), d(3640.63), 0, 3, 3, 90, "Excellent"},
		{"moderate", d(3000), d(2500), 25, 1, 1, 75, "Good"},
		{"capped", d(20000), d(1000), 100, 10, 10, 100, "Excellent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scoreHealth(tt.income, tt.expenses, tt.income.Sub(tt.expenses), tt.progress, tt.investments, tt.members)
			if got.Score != tt.wantScore || got.Level != tt.wantLevel {
				t.Errorf("scoreHealth() = %d %s, want %d %s", got.Score, got.Level, tt.wantScore, tt.wantLevel)
			}
		})
	}

	if poor := scoreHealth(d(0), d(0), d(0), 0, 0, 0); poor.Recommendation == "" {
		t.Error("recommendation should be set")
	}
}

func TestHealthScoreFromSeed(t *testing.T) {
	st := newTestStore(t, store.DefaultSeed)
	svc := New(st, nil, nil)

	score, err := svc.Planner.HealthScore("demo-alex")
	if err != nil {
		t.Fatalf("HealthScore() error = %v", err)
	}
	if score.Score != 90 || score.Level != "Excellent" {
		t.Errorf("HealthScore() = %+v", score)
	}
}

func TestAskAdvice(t *testing.T) {
	st := newTestStore(t, store.DefaultSeed)
	svc := New(st, nil, nil)

	entry, err := svc.Planner.AskAdvice("demo-alex", models.AdviceEmergency, "  How big should my fund be?  ")
	if err != nil {
		t.Fatalf("AskAdvice() error = %v", err)
	}
	if entry.Question != "How big should my fund be?" {
		t.Errorf("question = %q", entry.Question)
	}
	if !strings.Contains(entry.Answer, "$21843.78") {
		t.Errorf("answer = %q, want six months of expenses", entry.Answer)
	}

	history, _ := svc.History.GetAdviceHistory("demo-alex")
	if len(history) == 0 || history[0].ID != entry.ID {
		t.Error("advice should be recorded newest first")
	}

	if _, err := svc.Planner.AskAdvice("demo-alex", "lottery", "Which numbers?"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("unknown category error = %v", err)
	}
	if _, err := svc.Planner.AskAdvice("demo-alex", models.AdviceSavings, " "); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("empty question error = %v", err)
	}
}

func TestScanReceipt(t *testing.T) {
	svc, _ := newTestServices(t)

	image := "https://example.com/r.jpg"
	receipt, err := svc.Planner.ScanReceipt("u1", &image)
	if err != nil {
		t.Fatalf("ScanReceipt() error = %v", err)
	}
	if !receipt.Amount.Equal(decimal.NewFromInt(60)) {
		t.Errorf("amount = %s, want 60", receipt.Amount)
	}
	if !receipt.TaxAmount.Decimal.Equal(decimal.NewFromInt(5)) {
		t.Errorf("tax = %s, want 5", receipt.TaxAmount.Decimal)
	}
	if *receipt.Merchant != "Starbucks" || *receipt.Category != "Food" {
		t.Errorf("merchant/category = %s / %s", *receipt.Merchant, *receipt.Category)
	}
	if receipt.Date != "2025-03-10" || receipt.ExtractedData["merchant"] != "Starbucks" {
		t.Errorf("receipt = %+v", receipt)
	}

	txns, _ := svc.Transactions.GetTransactions("u1", 0)
	if len(txns) != 1 {
		t.Fatalf("expected one expense, got %d", len(txns))
	}
	if txns[0].Type != models.TransactionExpense || !txns[0].Amount.Equal(receipt.Amount) {
		t.Errorf("expense = %+v", txns[0])
	}
	if txns[0].Description == nil || *txns[0].Description != "Receipt from Starbucks" {
		t.Errorf("description = %v", txns[0].Description)
	}
}

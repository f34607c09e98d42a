package services

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vikasavnish/flowguide/internal/models"
	"github.com/vikasavnish/flowguide/internal/netsim"
	"github.com/vikasavnish/flowguide/internal/store"
)

var fixedNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

type stubRand struct {
	float float64
	n     int
}

func (r stubRand) Float64() float64 { return r.float }
func (r stubRand) IntN(int) int     { return r.n }

func emptySeed(time.Time) (store.Tables, error) {
	tables := store.Tables{}
	for _, name := range store.TableNames {
		tables[name] = []store.Record{}
	}
	return tables, nil
}

func newTestStore(t *testing.T, seed store.SeedFunc) *store.Store {
	t.Helper()
	return store.New(store.NewMemoryKV(),
		store.WithClock(func() time.Time { return fixedNow }),
		store.WithLogger(zap.NewNop()),
		store.WithSeed(seed),
	)
}

// newTestServices runs without simulated latency or failures.
func newTestServices(t *testing.T) (*Services, *store.Store) {
	t.Helper()
	st := newTestStore(t, emptySeed)
	return New(st, nil, stubRand{float: 0.5}), st
}

func TestListsNeverLeakOtherUsers(t *testing.T) {
	svc, _ := newTestServices(t)

	for _, user := range []string{"user-a", "user-b"} {
		for i := 0; i < 3; i++ {
			if _, err := svc.Transactions.CreateTransaction(models.Transaction{
				UserID: user,
				Type:   models.TransactionIncome,
				Amount: decimal.NewFromInt(10),
				Date:   "2025-03-01",
			}); err != nil {
				t.Fatalf("CreateTransaction() error = %v", err)
			}
		}
		if _, err := svc.Goals.CreateGoal(models.Goal{UserID: user, Name: "Goal " + user}); err != nil {
			t.Fatalf("CreateGoal() error = %v", err)
		}
	}

	txns, err := svc.Transactions.GetTransactions("user-a", 0)
	if err != nil {
		t.Fatalf("GetTransactions() error = %v", err)
	}
	if len(txns) != 3 {
		t.Errorf("expected 3 transactions, got %d", len(txns))
	}
	for _, txn := range txns {
		if txn.UserID != "user-a" {
			t.Errorf("leaked transaction of %s", txn.UserID)
		}
	}

	goals, _ := svc.Goals.GetGoals("user-b")
	if len(goals) != 1 || goals[0].UserID != "user-b" {
		t.Errorf("GetGoals(user-b) = %+v", goals)
	}

	balance, _ := svc.Transactions.GetBalance("user-a")
	if !balance.Equal(decimal.NewFromInt(30)) {
		t.Errorf("balance = %s, want 30", balance)
	}
}

func TestBillsSortByDueDateAscending(t *testing.T) {
	svc, _ := newTestServices(t)

	for _, due := range []string{"2025-03-01", "2025-01-01", "2025-02-01"} {
		if _, err := svc.Bills.CreateBill(models.Bill{UserID: "u1", Name: due, DueDate: due, Status: models.BillUpcoming}); err != nil {
			t.Fatalf("CreateBill() error = %v", err)
		}
	}

	bills, err := svc.Bills.GetBills("u1")
	if err != nil {
		t.Fatalf("GetBills() error = %v", err)
	}
	want := []string{"2025-01-01", "2025-02-01", "2025-03-01"}
	for i, bill := range bills {
		if bill.DueDate != want[i] {
			t.Errorf("bills[%d].DueDate = %s, want %s", i, bill.DueDate, want[i])
		}
	}
}

func TestTransactionsOrderAndLimit(t *testing.T) {
	svc, st := newTestServices(t)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 60; i++ {
		st.Insert(store.Transactions, store.Record{
			"user_id":    "u1",
			"type":       "expense",
			"amount":     1,
			"date":       store.FormatISO(base.AddDate(0, 0, i)),
			"created_at": store.FormatISO(base),
		})
	}
	// Same date as the newest, created later: must come first.
	st.Insert(store.Transactions, store.Record{
		"id":         "txn-tie",
		"user_id":    "u1",
		"type":       "expense",
		"amount":     1,
		"date":       store.FormatISO(base.AddDate(0, 0, 59)),
		"created_at": store.FormatISO(base.AddDate(0, 1, 0)),
	})

	txns, err := svc.Transactions.GetTransactions("u1", 0)
	if err != nil {
		t.Fatalf("GetTransactions() error = %v", err)
	}
	if len(txns) != 50 {
		t.Fatalf("default limit should be 50, got %d", len(txns))
	}
	if txns[0].ID != "txn-tie" {
		t.Errorf("first transaction = %s, want txn-tie", txns[0].ID)
	}
	for i := 1; i < len(txns); i++ {
		if store.ParseTime(txns[i].Date).After(store.ParseTime(txns[i-1].Date)) {
			t.Fatalf("transactions not sorted newest first at %d", i)
		}
	}

	five, _ := svc.Transactions.GetTransactions("u1", 5)
	if len(five) != 5 {
		t.Errorf("limit 5 returned %d", len(five))
	}
	for i := range five {
		if five[i].ID != txns[i].ID {
			t.Errorf("limit should apply after sort: %s != %s", five[i].ID, txns[i].ID)
		}
	}
}

func TestGoalProgressUpdate(t *testing.T) {
	svc, _ := newTestServices(t)

	goal, err := svc.Goals.CreateGoal(models.Goal{
		UserID:        "u1",
		Name:          "Laptop",
		TargetAmount:  decimal.NewFromInt(1000),
		CurrentAmount: decimal.NewFromInt(400),
	})
	if err != nil {
		t.Fatalf("CreateGoal() error = %v", err)
	}

	next := goal.CurrentAmount.Add(decimal.NewFromInt(700))
	updated, err := svc.Goals.UpdateGoal(goal.ID, map[string]any{"current_amount": next})
	if err != nil {
		t.Fatalf("UpdateGoal() error = %v", err)
	}
	if !updated.CurrentAmount.Equal(decimal.NewFromInt(1100)) {
		t.Errorf("current_amount = %s, want 1100", updated.CurrentAmount)
	}
	if updated.CurrentAmount.LessThan(updated.TargetAmount) {
		t.Error("goal should be complete")
	}
	if updated.CreatedAt != goal.CreatedAt || updated.ID != goal.ID {
		t.Error("update must keep id and created_at")
	}
}

func TestCreateStampsServerFields(t *testing.T) {
	svc, _ := newTestServices(t)

	inv, err := svc.Investments.CreateInvestment(models.Investment{
		ID:        "client-chosen",
		UserID:    "u1",
		Name:      "Index fund",
		CreatedAt: "1999-01-01T00:00:00.000Z",
	})
	if err != nil {
		t.Fatalf("CreateInvestment() error = %v", err)
	}
	if inv.ID == "client-chosen" || !strings.HasPrefix(inv.ID, "investment_") {
		t.Errorf("id = %s, want server-generated investment_ id", inv.ID)
	}
	if inv.CreatedAt != store.FormatISO(fixedNow) || inv.UpdatedAt != inv.CreatedAt {
		t.Errorf("timestamps = %s / %s", inv.CreatedAt, inv.UpdatedAt)
	}

	// No field validation: negative amounts are stored verbatim.
	txn, err := svc.Transactions.CreateTransaction(models.Transaction{UserID: "u1", Amount: decimal.NewFromInt(-5)})
	if err != nil || !txn.Amount.Equal(decimal.NewFromInt(-5)) {
		t.Errorf("CreateTransaction() = %+v, %v", txn, err)
	}
}

func TestUpdateMissingReturnsNil(t *testing.T) {
	svc, _ := newTestServices(t)

	bill, err := svc.Bills.UpdateBill("bill-missing", map[string]any{"status": models.BillPaid})
	if err != nil || bill != nil {
		t.Errorf("UpdateBill() = %v, %v; want nil, nil", bill, err)
	}
	if err := svc.Bills.DeleteBill("bill-missing"); err != nil {
		t.Errorf("DeleteBill() error = %v", err)
	}
}

func TestAggregatesCoerceStoredAmounts(t *testing.T) {
	svc, st := newTestServices(t)

	rows := []struct {
		table  store.Table
		record store.Record
	}{
		{store.Transactions, store.Record{"user_id": "u1", "type": "income", "amount": "100.50"}},
		{store.Transactions, store.Record{"user_id": "u1", "type": "expense", "amount": 20.25}},
		{store.Transactions, store.Record{"user_id": "u1", "type": "expense", "amount": "not a number"}},
		{store.Transactions, store.Record{"user_id": "u2", "type": "income", "amount": 999}},
		{store.FamilyMembers, store.Record{"user_id": "u1", "monthly_income": "3000", "is_active": true}},
		{store.FamilyMembers, store.Record{"user_id": "u1", "monthly_income": 1500, "is_active": true}},
		{store.FamilyMembers, store.Record{"user_id": "u1", "monthly_income": 800, "is_active": false}},
		{store.Investments, store.Record{"user_id": "u1", "current_value": "250.75"}},
		{store.Investments, store.Record{"user_id": "u1", "current_value": 49.25}},
	}
	for _, row := range rows {
		if _, err := st.Insert(row.table, row.record); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	balance, err := svc.Transactions.GetBalance("u1")
	if err != nil {
		t.Fatalf("GetBalance() error = %v", err)
	}
	if !balance.Equal(decimal.RequireFromString("80.25")) {
		t.Errorf("balance = %s, want 80.25", balance)
	}

	income, _ := svc.Family.GetTotalFamilyIncome("u1")
	if !income.Equal(decimal.NewFromInt(4500)) {
		t.Errorf("family income = %s, want 4500", income)
	}

	total, _ := svc.Investments.GetTotalInvestmentValue("u1")
	if !total.Equal(decimal.NewFromInt(300)) {
		t.Errorf("investment value = %s, want 300", total)
	}
}

func TestAlerts(t *testing.T) {
	svc, _ := newTestServices(t)

	alert, err := svc.Alerts.CreateAlert(models.Alert{UserID: "u1", Type: models.AlertBillDue, Title: "Rent", Severity: models.SeverityWarning})
	if err != nil {
		t.Fatalf("CreateAlert() error = %v", err)
	}
	if alert.IsRead {
		t.Error("new alerts should be unread")
	}

	unread, _ := svc.Alerts.GetUnreadAlerts("u1")
	if len(unread) != 1 {
		t.Fatalf("expected 1 unread alert, got %d", len(unread))
	}

	if err := svc.Alerts.MarkAlertAsRead(alert.ID); err != nil {
		t.Fatalf("MarkAlertAsRead() error = %v", err)
	}
	unread, _ = svc.Alerts.GetUnreadAlerts("u1")
	if len(unread) != 0 {
		t.Errorf("expected no unread alerts, got %d", len(unread))
	}
	all, _ := svc.Alerts.GetAlerts("u1")
	if len(all) != 1 {
		t.Errorf("read alerts should still be listed, got %d", len(all))
	}

	if err := svc.Alerts.MarkAlertAsRead("alert-missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("MarkAlertAsRead(missing) error = %v, want ErrNotFound", err)
	}
}

func TestMonthlyReportsOrderAndLookup(t *testing.T) {
	svc, _ := newTestServices(t)

	for _, month := range []string{"2024-12", "2025-02", "2025-01"} {
		svc.Reports.CreateMonthlyReport(models.MonthlyReport{UserID: "u1", Month: month})
	}
	svc.Reports.CreateMonthlyReport(models.MonthlyReport{UserID: "u2", Month: "2025-02"})

	reports, _ := svc.Reports.GetMonthlyReports("u1")
	want := []string{"2025-02", "2025-01", "2024-12"}
	if len(reports) != len(want) {
		t.Fatalf("got %d reports, want %d", len(reports), len(want))
	}
	for i, r := range reports {
		if r.Month != want[i] {
			t.Errorf("reports[%d].Month = %s, want %s", i, r.Month, want[i])
		}
	}

	report, err := svc.Reports.GetMonthlyReport("u1", "2025-01")
	if err != nil || report == nil || report.Month != "2025-01" || report.UserID != "u1" {
		t.Errorf("GetMonthlyReport() = %+v, %v", report, err)
	}
	missing, err := svc.Reports.GetMonthlyReport("u1", "2023-01")
	if err != nil || missing != nil {
		t.Errorf("GetMonthlyReport(missing) = %+v, %v", missing, err)
	}
}

func TestFamilyMembersOldestFirst(t *testing.T) {
	svc, _ := newTestServices(t)

	st := newTestStore(t, store.DefaultSeed)
	seeded := New(st, nil, nil)
	members, err := seeded.Family.GetFamilyMembers("demo-alex")
	if err != nil {
		t.Fatalf("GetFamilyMembers() error = %v", err)
	}
	want := []string{"member-alex", "member-jamie", "member-mila"}
	for i, m := range members {
		if m.ID != want[i] {
			t.Errorf("members[%d] = %s, want %s", i, m.ID, want[i])
		}
	}

	none, _ := svc.Family.GetFamilyMembers("demo-alex")
	if len(none) != 0 {
		t.Errorf("empty store returned %d members", len(none))
	}
}

func TestProfile(t *testing.T) {
	st := newTestStore(t, store.DefaultSeed)
	svc := New(st, nil, nil)

	profile, err := svc.Profiles.GetProfile("demo-maya")
	if err != nil || profile == nil {
		t.Fatalf("GetProfile() = %v, %v", profile, err)
	}
	if profile.Name == nil || *profile.Name != "Maya Chen" {
		t.Errorf("name = %v", profile.Name)
	}

	updated, err := svc.Profiles.UpdateProfile("demo-maya", map[string]any{"language_preference": "es"})
	if err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}
	if updated.LanguagePreference != "es" || updated.UpdatedAt != store.FormatISO(fixedNow) {
		t.Errorf("updated profile = %+v", updated)
	}

	missing, _ := svc.Profiles.GetProfile("nobody")
	if missing != nil {
		t.Error("unknown profile should be nil")
	}
}

func TestNetworkHiccupSurfacesOnce(t *testing.T) {
	st := newTestStore(t, store.DefaultSeed)
	net := netsim.New(netsim.WithRand(stubRand{float: 0}), netsim.WithSleep(func(time.Duration) {}))
	svc := New(st, net, nil)

	if _, err := svc.Bills.GetBills("demo-alex"); !errors.Is(err, netsim.ErrNetworkHiccup) {
		t.Fatalf("first call error = %v, want ErrNetworkHiccup", err)
	}
	for i := 0; i < 3; i++ {
		bills, err := svc.Bills.GetBills("demo-alex")
		if err != nil {
			t.Fatalf("retry %d error = %v", i, err)
		}
		if len(bills) != 3 {
			t.Errorf("retry %d returned %d bills", i, len(bills))
		}
	}
}

func TestMalformedRecordsAreSkipped(t *testing.T) {
	svc, st := newTestServices(t)

	st.Insert(store.Goals, store.Record{"user_id": "u1", "name": "ok", "target_amount": 10})
	st.Insert(store.Goals, store.Record{"user_id": "u1", "name": "bad", "target_amount": map[string]any{"x": 1}})

	goals, err := svc.Goals.GetGoals("u1")
	if err != nil {
		t.Fatalf("GetGoals() error = %v", err)
	}
	if len(goals) != 1 || goals[0].Name != "ok" {
		t.Errorf("GetGoals() = %+v", goals)
	}
}

func TestOwnership(t *testing.T) {
	svc, _ := newTestServices(t)

	goal, _ := svc.Goals.CreateGoal(models.Goal{UserID: "u1", Name: "Mine"})

	tests := []struct {
		name   string
		table  store.Table
		id     string
		userID string
		want   error
	}{
		{"owner", store.Goals, goal.ID, "u1", nil},
		{"other user", store.Goals, goal.ID, "u2", ErrNotFound},
		{"missing", store.Goals, "goal-missing", "u1", ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Ownership.CheckOwner(tt.table, tt.id, tt.userID)
			if !errors.Is(err, tt.want) {
				t.Errorf("CheckOwner() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func ExampleTransactionService_GetBalance() {
	st := store.New(store.NewMemoryKV(), store.WithLogger(zap.NewNop()))
	svc := New(st, nil, nil)

	balance, _ := svc.Transactions.GetBalance("demo-alex")
	fmt.Println(balance.StringFixed(2))
	// Output: 2959.37
}

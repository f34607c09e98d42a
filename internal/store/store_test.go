package store

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

var fixedNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T, kv KV, opts ...Option) *Store {
	t.Helper()
	base := []Option{
		WithClock(func() time.Time { return fixedNow }),
		WithLogger(zap.NewNop()),
	}
	return New(kv, append(base, opts...)...)
}

func TestNewSeedsEmptySlot(t *testing.T) {
	kv := NewMemoryKV()
	s := newTestStore(t, kv)

	profiles, err := s.GetTable(Profiles)
	if err != nil {
		t.Fatalf("GetTable() error = %v", err)
	}
	if len(profiles) != 3 {
		t.Fatalf("expected 3 seeded profiles, got %d", len(profiles))
	}

	raw, err := kv.Get(DefaultKey)
	if err != nil {
		t.Fatalf("seed should be persisted immediately: %v", err)
	}
	if _, _, ok := decodeTables(raw); !ok {
		t.Error("persisted seed should pass the shape check")
	}
}

func TestSeedTimestampsFollowClock(t *testing.T) {
	s := newTestStore(t, NewMemoryKV())

	bills, _ := s.GetTable(Bills)
	for _, bill := range bills {
		if bill.ID() != "bill-mortgage" {
			continue
		}
		want := FormatISO(fixedNow.Add(5 * day))
		if got := bill.String("due_date"); got != want {
			t.Errorf("due_date = %s, want %s", got, want)
		}
		if bill["amount"] != float64(2100) {
			t.Errorf("amount = %v, want 2100", bill["amount"])
		}
		return
	}
	t.Fatal("bill-mortgage missing from seed")
}

func TestInitReseedsMalformedState(t *testing.T) {
	tests := []struct {
		name string
		blob string
	}{
		{"not json", "{{{"},
		{"null", "null"},
		{"number", "42"},
		{"array", "[]"},
		{"missing tables", `{"profiles": []}`},
		{"table not an array", blobWith(t, Bills, map[string]any{"x": 1})},
		{"table null", blobWith(t, Goals, nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := NewMemoryKV()
			if err := kv.Set(DefaultKey, []byte(tt.blob)); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			s := newTestStore(t, kv)

			snapshot := s.Snapshot()
			if !isValidTables(snapshot) {
				t.Fatal("store should hold a valid table set after init")
			}
			if len(snapshot[Profiles]) != 3 {
				t.Errorf("expected seed profiles, got %d", len(snapshot[Profiles]))
			}
			raw, _ := kv.Get(DefaultKey)
			if _, _, ok := decodeTables(raw); !ok {
				t.Error("re-seeded state should have been persisted")
			}
		})
	}
}

func TestInitKeepsTablesAroundMalformedRows(t *testing.T) {
	kv := NewMemoryKV()
	top := map[string]any{}
	for _, name := range TableNames {
		top[string(name)] = []any{}
	}
	top[string(Goals)] = []any{map[string]any{"id": "goal-mine", "user_id": "u1", "name": "Boat"}}
	top[string(Alerts)] = []any{"oops", nil, map[string]any{"id": "alert-1", "user_id": "u1"}}
	raw, err := json.Marshal(top)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if err := kv.Set(DefaultKey, raw); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	s := newTestStore(t, kv)

	goals, _ := s.GetTable(Goals)
	if len(goals) != 1 || goals[0].ID() != "goal-mine" {
		t.Fatalf("persisted goals should survive, got %v", goals)
	}
	alerts, _ := s.GetTable(Alerts)
	if len(alerts) != 1 || alerts[0].ID() != "alert-1" {
		t.Errorf("only the object alert row should remain, got %v", alerts)
	}
	profiles, _ := s.GetTable(Profiles)
	if len(profiles) != 0 {
		t.Errorf("store should not be re-seeded, got %d profiles", len(profiles))
	}
}

// blobWith encodes a complete table set with one table replaced by value.
func blobWith(t *testing.T, table Table, value any) string {
	t.Helper()
	top := map[string]any{}
	for _, name := range TableNames {
		top[string(name)] = []any{}
	}
	top[string(table)] = value
	raw, err := json.Marshal(top)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	return string(raw)
}

func TestInitLoadsPersistedState(t *testing.T) {
	kv := NewMemoryKV()
	tables := emptyTables()
	tables[Goals] = []Record{{"id": "goal-1", "user_id": "u1", "name": "Bike"}}
	raw, _ := json.Marshal(tables)
	kv.Set(DefaultKey, raw)

	s := newTestStore(t, kv)
	goals, _ := s.GetTable(Goals)
	if len(goals) != 1 || goals[0].ID() != "goal-1" {
		t.Fatalf("expected persisted goal, got %v", goals)
	}
	profiles, _ := s.GetTable(Profiles)
	if len(profiles) != 0 {
		t.Errorf("valid persisted state should not be re-seeded, got %d profiles", len(profiles))
	}
}

func TestInsertAssignsIDAndTimestamps(t *testing.T) {
	s := newTestStore(t, NewMemoryKV())

	txn, err := s.Insert(Transactions, Record{"user_id": "u1", "type": "expense", "amount": 12.5})
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if !strings.HasPrefix(txn.ID(), "txn_") {
		t.Errorf("id = %q, want txn_ prefix", txn.ID())
	}
	if txn.String("created_at") != FormatISO(fixedNow) {
		t.Errorf("created_at = %q", txn.String("created_at"))
	}
	if _, ok := txn["updated_at"]; ok {
		t.Error("transactions should not get updated_at")
	}

	inv, err := s.Insert(Investments, Record{"user_id": "u1", "created_at": "2024-01-01T00:00:00.000Z"})
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if inv.String("created_at") != "2024-01-01T00:00:00.000Z" {
		t.Error("explicit created_at should be kept")
	}
	if inv.String("updated_at") != inv.String("created_at") {
		t.Errorf("updated_at = %q, want created_at", inv.String("updated_at"))
	}
}

func TestInsertAssignsDistinctIDs(t *testing.T) {
	s := newTestStore(t, NewMemoryKV(), WithSeed(func(time.Time) (Tables, error) {
		return emptyTables(), nil
	}))

	const n = 100
	for i := 0; i < n; i++ {
		if _, err := s.Insert(Goals, Record{"user_id": "u1", "name": "Goal"}); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	goals, err := s.GetTable(Goals)
	if err != nil {
		t.Fatalf("GetTable() error = %v", err)
	}
	if len(goals) != n {
		t.Fatalf("table holds %d goals, want %d", len(goals), n)
	}
	seen := make(map[string]bool, n)
	for _, g := range goals {
		if g.ID() == "" || seen[g.ID()] {
			t.Fatalf("duplicate or empty id %q", g.ID())
		}
		seen[g.ID()] = true
	}
}

func TestInsertKeepsExplicitID(t *testing.T) {
	s := newTestStore(t, NewMemoryKV())

	got, err := s.Insert(Goals, Record{"id": "goal-custom", "user_id": "u1"})
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if got.ID() != "goal-custom" {
		t.Errorf("id = %q, want goal-custom", got.ID())
	}
}

func TestUnknownTable(t *testing.T) {
	s := newTestStore(t, NewMemoryKV())

	if _, err := s.GetTable("nope"); err == nil {
		t.Error("GetTable() should reject unknown table")
	}
	if _, err := s.Insert("nope", Record{}); err == nil {
		t.Error("Insert() should reject unknown table")
	}
	if _, err := ParseTable("bills"); err != nil {
		t.Errorf("ParseTable(bills) error = %v", err)
	}
}

// Records handed to and returned from the store must not alias its state.
func TestDeepCopyIsolation(t *testing.T) {
	s := newTestStore(t, NewMemoryKV())

	input := Record{"user_id": "u1", "extracted_data": map[string]any{"items": float64(3)}}
	stored, err := s.Insert(Receipts, input)
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	input["user_id"] = "mutated"
	input["extracted_data"].(map[string]any)["items"] = float64(99)
	stored["user_id"] = "mutated"

	receipts, _ := s.GetTable(Receipts)
	var found Record
	for _, r := range receipts {
		if r.ID() == stored.ID() {
			found = r
		}
	}
	if found == nil {
		t.Fatal("inserted receipt missing")
	}
	if found.UserID() != "u1" {
		t.Errorf("user_id = %q, want u1", found.UserID())
	}
	if found["extracted_data"].(map[string]any)["items"] != float64(3) {
		t.Error("nested value should not be shared with the caller")
	}

	found["user_id"] = "mutated again"
	snapshot := s.Snapshot()
	snapshot[Receipts] = nil
	again, _ := s.GetTable(Receipts)
	for _, r := range again {
		if r.ID() == stored.ID() && r.UserID() != "u1" {
			t.Error("GetTable() result should be a copy")
		}
	}
}

func TestUpdate(t *testing.T) {
	later := fixedNow.Add(time.Hour)
	now := fixedNow
	s := newTestStore(t, NewMemoryKV(), WithClock(func() time.Time { return now }))

	inv, _ := s.Insert(Investments, Record{"user_id": "u1", "current_value": 100})
	now = later

	updated, err := s.Update(Investments, inv.ID(), Record{
		"current_value": 150,
		"id":            "hijack",
		"created_at":    "1999-01-01T00:00:00.000Z",
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.ID() != inv.ID() {
		t.Errorf("id changed to %q", updated.ID())
	}
	if updated.String("created_at") != inv.String("created_at") {
		t.Error("created_at should be preserved")
	}
	if updated.String("updated_at") != FormatISO(later) {
		t.Errorf("updated_at = %q, want %q", updated.String("updated_at"), FormatISO(later))
	}
	if updated["current_value"] != float64(150) {
		t.Errorf("current_value = %v", updated["current_value"])
	}
	if updated.UserID() != "u1" {
		t.Error("untouched fields should survive the merge")
	}

	missing, err := s.Update(Investments, "inv-missing", Record{"name": "x"})
	if err != nil || missing != nil {
		t.Errorf("Update() on missing id = %v, %v; want nil, nil", missing, err)
	}
}

func TestDelete(t *testing.T) {
	kv := NewMemoryKV()
	s := newTestStore(t, kv)

	ok, err := s.Delete(Bills, "bill-card")
	if err != nil || !ok {
		t.Fatalf("Delete() = %v, %v; want true", ok, err)
	}
	bills, _ := s.GetTable(Bills)
	for _, b := range bills {
		if b.ID() == "bill-card" {
			t.Error("bill-card should be gone")
		}
	}

	before, _ := kv.Get(DefaultKey)
	kv.FailWrites = true
	ok, err = s.Delete(Bills, "bill-card")
	if err != nil || ok {
		t.Errorf("second Delete() = %v, %v; want false", ok, err)
	}
	after, _ := kv.Get(DefaultKey)
	if string(before) != string(after) {
		t.Error("no-op delete should not change the persisted blob")
	}
}

func TestPersistFailureIsSwallowed(t *testing.T) {
	kv := NewMemoryKV()
	s := newTestStore(t, kv)
	kv.FailWrites = true

	goal, err := s.Insert(Goals, Record{"user_id": "u1", "name": "Car"})
	if err != nil {
		t.Fatalf("Insert() should not surface write failures: %v", err)
	}
	goals, _ := s.GetTable(Goals)
	found := false
	for _, g := range goals {
		if g.ID() == goal.ID() {
			found = true
		}
	}
	if !found {
		t.Error("in-memory state should keep the insert")
	}
}

func TestInsertThenReloadRoundTrip(t *testing.T) {
	kv := NewMemoryKV()
	s := newTestStore(t, kv)
	created, _ := s.Insert(Alerts, Record{"user_id": "u1", "title": "Hi", "is_read": false})

	reloaded := newTestStore(t, kv)
	alerts, _ := reloaded.GetTable(Alerts)
	for _, a := range alerts {
		if a.ID() == created.ID() {
			if a.String("title") != "Hi" {
				t.Errorf("title = %q", a.String("title"))
			}
			return
		}
	}
	t.Fatal("alert did not survive reload")
}

func TestResetRestoresSeed(t *testing.T) {
	s := newTestStore(t, NewMemoryKV())
	s.SetTable(Goals, nil)
	if goals, _ := s.GetTable(Goals); len(goals) != 0 {
		t.Fatalf("SetTable(nil) should empty the table, got %d", len(goals))
	}

	s.Reset()
	goals, _ := s.GetTable(Goals)
	if len(goals) != 3 {
		t.Errorf("expected 3 seeded goals after reset, got %d", len(goals))
	}
}

func TestChangeListener(t *testing.T) {
	var changes []Change
	s := newTestStore(t, NewMemoryKV(), WithChangeListener(func(c Change) {
		changes = append(changes, c)
	}))

	rec, _ := s.Insert(Goals, Record{"user_id": "u1"})
	s.Update(Goals, rec.ID(), Record{"name": "x"})
	s.Update(Goals, "missing", Record{"name": "x"})
	s.Delete(Goals, rec.ID())
	s.Reset()

	want := []string{ActionInsert, ActionUpdate, ActionDelete, ActionReset}
	if len(changes) != len(want) {
		t.Fatalf("got %d changes, want %d: %+v", len(changes), len(want), changes)
	}
	for i, action := range want {
		if changes[i].Action != action {
			t.Errorf("change %d action = %s, want %s", i, changes[i].Action, action)
		}
	}
	if changes[0].UserID != "u1" || changes[0].Table != Goals {
		t.Errorf("insert change = %+v", changes[0])
	}
}

func TestSeedFailureFallsBackToEmptyTables(t *testing.T) {
	s := newTestStore(t, NewMemoryKV(), WithSeed(func(time.Time) (Tables, error) {
		return Tables{Profiles: nil}, nil
	}))

	snapshot := s.Snapshot()
	if !isValidTables(snapshot) {
		t.Fatal("store should always expose every table")
	}
	if len(snapshot[Profiles]) != 0 {
		t.Error("expected empty tables")
	}
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID("bill"), GenerateID("bill")
	if a == b {
		t.Error("GenerateID() should not repeat")
	}
	if !strings.HasPrefix(a, "bill_") {
		t.Errorf("GenerateID() = %q", a)
	}
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2025-03-01T10:00:00.000Z", time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)},
		{"2025-03-01", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"garbage", time.Time{}},
	}
	for _, tt := range tests {
		if got := ParseTime(tt.in); !got.Equal(tt.want) {
			t.Errorf("ParseTime(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrUnknownTable  = errors.New("unknown table")
	ErrInvalidRecord = errors.New("record is not a JSON object")
)

// Table names a collection of records of one entity type.
type Table string

const (
	Profiles          Table = "profiles"
	Transactions      Table = "transactions"
	Bills             Table = "bills"
	Goals             Table = "goals"
	FamilyMembers     Table = "family_members"
	Investments       Table = "investments"
	Alerts            Table = "alerts"
	AdviceHistory     Table = "advice_history"
	VoiceSmsHistory   Table = "voice_sms_history"
	SafetyLogs        Table = "safety_logs"
	MonthlyReports    Table = "monthly_reports"
	Receipts          Table = "receipts"
	BudgetPlans       Table = "budget_plans"
	SpendingForecasts Table = "spending_forecasts"
)

type tableMeta struct {
	prefix    string
	updatedAt bool
}

var tableMetas = map[Table]tableMeta{
	Profiles:          {prefix: "profile", updatedAt: true},
	Transactions:      {prefix: "txn"},
	Bills:             {prefix: "bill"},
	Goals:             {prefix: "goal"},
	FamilyMembers:     {prefix: "member"},
	Investments:       {prefix: "investment", updatedAt: true},
	Alerts:            {prefix: "alert"},
	AdviceHistory:     {prefix: "advice"},
	VoiceSmsHistory:   {prefix: "voice"},
	SafetyLogs:        {prefix: "safety"},
	MonthlyReports:    {prefix: "report"},
	Receipts:          {prefix: "receipt"},
	BudgetPlans:       {prefix: "budget"},
	SpendingForecasts: {prefix: "forecast"},
}

// TableNames lists every recognized table in a stable order.
var TableNames = []Table{
	Profiles, Transactions, Bills, Goals, FamilyMembers, Investments, Alerts,
	AdviceHistory, VoiceSmsHistory, SafetyLogs, MonthlyReports, Receipts,
	BudgetPlans, SpendingForecasts,
}

// Valid reports whether t is one of the recognized tables.
func (t Table) Valid() bool {
	_, ok := tableMetas[t]
	return ok
}

// IDPrefix is the prefix used for ids generated in this table.
func (t Table) IDPrefix() string {
	return tableMetas[t].prefix
}

// TracksUpdates reports whether records of this table carry updated_at.
func (t Table) TracksUpdates() bool {
	return tableMetas[t].updatedAt
}

// ParseTable resolves a table by name.
func ParseTable(name string) (Table, error) {
	t := Table(strings.TrimSpace(name))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownTable, name)
	}
	return t, nil
}

// Record is one row. Values are always JSON-shaped: string, float64, bool,
// nil, []any or map[string]any.
type Record map[string]any

// Tables is the whole table set keyed by table name.
type Tables map[Table][]Record

// ID returns the record id or "" when absent.
func (r Record) ID() string {
	return r.String("id")
}

// UserID returns the owning user id or "" when absent.
func (r Record) UserID() string {
	return r.String("user_id")
}

// String returns the string value stored under key, or "".
func (r Record) String(key string) string {
	s, _ := r[key].(string)
	return s
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, item := range x {
			out[k] = cloneValue(item)
		}
		return out
	case Record:
		return x.Clone()
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return x
	}
}

func cloneRecords(records []Record) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}

func cloneTables(tables Tables) Tables {
	out := make(Tables, len(tables))
	for name, records := range tables {
		out[name] = cloneRecords(records)
	}
	return out
}

// ToRecord converts any JSON-encodable object into a Record. The round trip
// guarantees the stored value owns no memory shared with the caller.
func ToRecord(v any) (Record, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	var r Record
	if err := json.Unmarshal(raw, &r); err != nil || r == nil {
		return nil, ErrInvalidRecord
	}
	return r, nil
}

// Decode converts a record into a typed value.
func Decode[T any](r Record) (T, error) {
	var out T
	raw, err := json.Marshal(r)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode %s: %w", r.ID(), err)
	}
	return out, nil
}

func emptyTables() Tables {
	tables := make(Tables, len(TableNames))
	for _, name := range TableNames {
		tables[name] = []Record{}
	}
	return tables
}

// isValidTables is the shape check: every recognized table must be present.
func isValidTables(tables Tables) bool {
	if tables == nil {
		return false
	}
	for _, name := range TableNames {
		if _, ok := tables[name]; !ok {
			return false
		}
	}
	return true
}

// decodeTables parses a persisted blob. The blob must be an object whose
// recognized tables are all arrays. Rows that are not objects are dropped
// and counted; they never invalidate the blob.
func decodeTables(raw []byte) (Tables, int, bool) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil || top == nil {
		return nil, 0, false
	}

	tables := make(Tables, len(TableNames))
	dropped := 0
	for _, name := range TableNames {
		msg, ok := top[string(name)]
		if !ok {
			return nil, 0, false
		}
		var items []json.RawMessage
		if err := json.Unmarshal(msg, &items); err != nil || items == nil {
			return nil, 0, false
		}
		rows := make([]Record, 0, len(items))
		for _, item := range items {
			var r Record
			if err := json.Unmarshal(item, &r); err != nil || r == nil {
				dropped++
				continue
			}
			rows = append(rows, r)
		}
		tables[name] = rows
	}
	return tables, dropped, true
}

// GenerateID returns prefix followed by a random UUID.
func GenerateID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}

const isoLayout = "2006-01-02T15:04:05.000Z"

// FormatISO renders t the way browsers render Date.toISOString.
func FormatISO(t time.Time) string {
	return t.UTC().Format(isoLayout)
}

// ParseTime accepts the timestamp and date formats found in stored records.
// Unparseable values yield the zero time.
func ParseTime(value string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02", "2006-01"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

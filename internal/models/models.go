package models

import (
	"github.com/shopspring/decimal"
)

func init() {
	// Amounts travel as JSON numbers, the same shape the seed data uses.
	decimal.MarshalJSONWithoutQuotes = true
}

// Message represents a WebSocket message
type Message struct {
	Type    string      `json:"type"`
	Content interface{} `json:"content"`
}

// MessageStoreChange carries a store.Change to live clients.
const MessageStoreChange = "store_change"

// Transaction types
const (
	TransactionIncome  = "income"
	TransactionExpense = "expense"
)

// Bill statuses
const (
	BillUpcoming = "upcoming"
	BillPaid     = "paid"
)

// Alert types and severities
const (
	AlertLowBalance       = "low_balance"
	AlertBillDue          = "bill_due"
	AlertGoalBehind       = "goal_behind"
	AlertOverspendWarning = "overspend_warning"

	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// Advice categories
const (
	AdviceSavings   = "savings"
	AdviceEmergency = "emergency"
	AdvicePlanning  = "planning"
)

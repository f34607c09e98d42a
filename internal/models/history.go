package models

import (
	"github.com/shopspring/decimal"
)

type AdviceHistory struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Category  string `json:"category"`
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	CreatedAt string `json:"created_at"`
}

type VoiceSmsHistory struct {
	ID        string  `json:"id"`
	UserID    string  `json:"user_id"`
	Type      string  `json:"type"`
	Content   string  `json:"content"`
	Summary   *string `json:"summary"`
	CreatedAt string  `json:"created_at"`
}

type SafetyLog struct {
	ID          string              `json:"id"`
	UserID      string              `json:"user_id"`
	LogType     string              `json:"log_type"`
	Description string              `json:"description"`
	RiskScore   decimal.NullDecimal `json:"risk_score"`
	CreatedAt   string              `json:"created_at"`
}

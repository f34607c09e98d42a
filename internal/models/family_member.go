package models

import (
	"github.com/shopspring/decimal"
)

// FamilyMember is a person in the household of the owning user.
type FamilyMember struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	Name          string          `json:"name"`
	Relationship  string          `json:"relationship"`
	Email         *string         `json:"email"`
	Phone         *string         `json:"phone"`
	DateOfBirth   *string         `json:"date_of_birth"`
	Occupation    *string         `json:"occupation"`
	MonthlyIncome decimal.Decimal `json:"monthly_income"`
	IsActive      bool            `json:"is_active"`
	AvatarURL     *string         `json:"avatar_url"`
	CreatedAt     string          `json:"created_at"`
}

// Investment is a holding owned by the user, optionally attributed to a
// family member. MemberID is not validated against family_members.
type Investment struct {
	ID                 string          `json:"id"`
	UserID             string          `json:"user_id"`
	MemberID           *string         `json:"member_id"`
	Name               string          `json:"name"`
	Type               string          `json:"type"`
	InitialAmount      decimal.Decimal `json:"initial_amount"`
	CurrentValue       decimal.Decimal `json:"current_value"`
	PurchaseDate       string          `json:"purchase_date"`
	ExpectedReturnRate decimal.Decimal `json:"expected_return_rate"`
	Notes              *string         `json:"notes"`
	CreatedAt          string          `json:"created_at"`
	UpdatedAt          string          `json:"updated_at"`
}

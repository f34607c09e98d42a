package models

import (
	"github.com/dgrijalva/jwt-go"
)

type Profile struct {
	ID                 string  `json:"id"`
	Email              *string `json:"email"`
	Phone              *string `json:"phone"`
	Name               *string `json:"name"`
	LanguagePreference string  `json:"language_preference"`
	PrimaryIncomeType  *string `json:"primary_income_type"`
	Role               string  `json:"role"`
	CreatedAt          string  `json:"created_at"`
	UpdatedAt          string  `json:"updated_at"`
}

// DemoUser is one of the selectable accounts on the demo login screen.
type DemoUser struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	Title     string `json:"title,omitempty"`
	Household string `json:"household,omitempty"`
	Location  string `json:"location,omitempty"`
	Timezone  string `json:"timezone,omitempty"`
	Bio       string `json:"bio,omitempty"`
}

var DemoUsers = []DemoUser{
	{
		ID:        "demo-alex",
		Name:      "Alex Martinez",
		Email:     "alex@flowguide.demo",
		AvatarURL: "https://api.dicebear.com/7.x/initials/svg?seed=Alex%20Martinez",
		Title:     "Design Lead, Brightwave Health",
		Household: "Martinez Family",
		Location:  "San Francisco, CA",
		Timezone:  "America/Los_Angeles",
		Bio:       "Running a dual-income household with a toddler while optimizing investments and savings.",
	},
	{
		ID:        "demo-jordan",
		Name:      "Jordan Singh",
		Email:     "jordan@flowguide.demo",
		AvatarURL: "https://api.dicebear.com/7.x/initials/svg?seed=Jordan%20Singh",
		Title:     "Operations Director, Northwind Logistics",
		Household: "Singh Household",
		Location:  "Seattle, WA",
		Timezone:  "America/Los_Angeles",
		Bio:       "Balancing college savings with aggressive retirement goals for a growing family.",
	},
	{
		ID:        "demo-maya",
		Name:      "Maya Chen",
		Email:     "maya@flowguide.demo",
		AvatarURL: "https://api.dicebear.com/7.x/initials/svg?seed=Maya%20Chen",
		Title:     "Product Marketing Lead, Stellar AI",
		Household: "Chen Household",
		Location:  "Austin, TX",
		Timezone:  "America/Chicago",
		Bio:       "First-time homeowner focused on crushing student loans and building an investment habit.",
	},
}

// FindDemoUser looks up a demo account by id.
func FindDemoUser(id string) (DemoUser, bool) {
	for _, u := range DemoUsers {
		if u.ID == id {
			return u, true
		}
	}
	return DemoUser{}, false
}

// Claims for JWT authentication
type Claims struct {
	UserID string `json:"user_id"`
	jwt.StandardClaims
}

type TokenResponse struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	User        DemoUser `json:"user"`
}

type LoginRequest struct {
	UserID   string `json:"user_id"`
	Passcode string `json:"passcode"`
}

// DemoSession is the signed-in demo account persisted between restarts.
type DemoSession struct {
	User       DemoUser `json:"user"`
	SignedInAt string   `json:"signed_in_at"`
}

package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"

	"github.com/vikasavnish/flowguide/internal/models"
	"github.com/vikasavnish/flowguide/internal/store"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService defines the interface for demo authentication and the
// persisted demo session.
type AuthService interface {
	Authenticate(userID, passcode string) (models.DemoUser, error)
	GenerateToken(user models.DemoUser) (string, error)
	ParseToken(tokenString string) (*models.Claims, error)
	SaveSession(user models.DemoUser) (*models.DemoSession, error)
	LoadSession() (*models.DemoSession, error)
	ClearSession() error
}

// authService implements the AuthService interface
type authService struct {
	kv           store.KV
	sessionKey   string
	secretKey    []byte
	tokenTTL     time.Duration
	passcodeHash []byte
	now          func() time.Time
}

// NewAuthService creates a new authentication service. The shared demo
// passcode is hashed once here and never kept in clear.
func NewAuthService(kv store.KV, sessionKey string, secretKey []byte, tokenTTL time.Duration, passcode string) (AuthService, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(passcode), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash demo passcode: %w", err)
	}
	return &authService{
		kv:           kv,
		sessionKey:   sessionKey,
		secretKey:    secretKey,
		tokenTTL:     tokenTTL,
		passcodeHash: hash,
		now:          time.Now,
	}, nil
}

// Authenticate verifies the demo account id and the shared passcode
func (s *authService) Authenticate(userID, passcode string) (models.DemoUser, error) {
	user, ok := models.FindDemoUser(userID)
	if !ok {
		return models.DemoUser{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(s.passcodeHash, []byte(passcode)); err != nil {
		return models.DemoUser{}, ErrInvalidCredentials
	}

	return user, nil
}

// GenerateToken creates a new JWT token for the user
func (s *authService) GenerateToken(user models.DemoUser) (string, error) {
	now := s.now()
	claims := &models.Claims{
		UserID: user.ID,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: now.Add(s.tokenTTL).Unix(),
			IssuedAt:  now.Unix(),
			Subject:   user.ID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken validates the signature and expiry and returns the claims.
func (s *authService) ParseToken(tokenString string) (*models.Claims, error) {
	claims := &models.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.secretKey, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidCredentials
	}
	if claims.UserID == "" {
		return nil, ErrInvalidCredentials
	}
	return claims, nil
}

// SaveSession records user as the signed-in demo account, replacing any
// previous session.
func (s *authService) SaveSession(user models.DemoUser) (*models.DemoSession, error) {
	session := &models.DemoSession{User: user, SignedInAt: store.FormatISO(s.now())}
	raw, err := json.Marshal(session)
	if err != nil {
		return nil, err
	}
	if err := s.kv.Set(s.sessionKey, raw); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return session, nil
}

// LoadSession returns the persisted session, or nil when nobody is signed
// in. A session naming an unknown demo user is discarded.
func (s *authService) LoadSession() (*models.DemoSession, error) {
	raw, err := s.kv.Get(s.sessionKey)
	if errors.Is(err, store.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var session models.DemoSession
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, s.ClearSession()
	}
	if _, ok := models.FindDemoUser(session.User.ID); !ok {
		return nil, s.ClearSession()
	}
	return &session, nil
}

func (s *authService) ClearSession() error {
	if err := s.kv.Delete(s.sessionKey); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

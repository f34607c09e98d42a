package services

import (
	"github.com/vikasavnish/flowguide/internal/models"
	"github.com/vikasavnish/flowguide/internal/netsim"
	"github.com/vikasavnish/flowguide/internal/store"
)

// ProfileService defines the interface for profile operations
type ProfileService interface {
	GetProfile(userID string) (*models.Profile, error)
	UpdateProfile(userID string, updates map[string]any) (*models.Profile, error)
}

type profileService struct {
	profiles table[models.Profile]
}

// NewProfileService creates a new profile service
func NewProfileService(st *store.Store, net *netsim.Network) ProfileService {
	return &profileService{profiles: newTable[models.Profile](st, net, store.Profiles, nil)}
}

// GetProfile returns the profile whose id is the user id, or nil.
func (s *profileService) GetProfile(userID string) (*models.Profile, error) {
	return netsim.Do(s.profiles.net, func() (*models.Profile, error) {
		rows, err := s.profiles.store.GetTable(store.Profiles)
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			if r.ID() == userID {
				return decodeOne[models.Profile](r)
			}
		}
		return nil, nil
	})
}

func (s *profileService) UpdateProfile(userID string, updates map[string]any) (*models.Profile, error) {
	return s.profiles.update(userID, updates)
}

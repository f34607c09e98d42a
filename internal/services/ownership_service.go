package services

import (
	"github.com/vikasavnish/flowguide/internal/store"
)

// OwnershipService checks that a record belongs to the caller before the
// HTTP layer lets them change it. Entity services themselves operate by id
// alone.
type OwnershipService interface {
	// CheckOwner returns ErrNotFound when the record is absent or owned by
	// someone else, so other users' ids are indistinguishable from missing.
	CheckOwner(table store.Table, id, userID string) error
}

type ownershipService struct {
	store *store.Store
}

func NewOwnershipService(st *store.Store) OwnershipService {
	return &ownershipService{store: st}
}

func (s *ownershipService) CheckOwner(table store.Table, id, userID string) error {
	rows, err := s.store.GetTable(table)
	if err != nil {
		return err
	}
	for _, r := range rows {
		if r.ID() != id {
			continue
		}
		owner := r.UserID()
		if table == store.Profiles {
			owner = r.ID()
		}
		if owner == userID {
			return nil
		}
		break
	}
	return ErrNotFound
}

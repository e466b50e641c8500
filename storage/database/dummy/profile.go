package dummydb

import (
	"context"

	"github.com/SandyWyper/Know-How/core"
	"github.com/SandyWyper/Know-How/core/profile"
)

type profileRepository struct {
	db *profileTable
}

var _ profile.Repository = (*profileRepository)(nil) // interface compliance check

func NewProfileRepository(db *DB) *profileRepository {
	return &profileRepository{db: db.profile}
}

func (repo *profileRepository) CreateProfile(_ context.Context, p profile.Profile, _ ...core.DBExecutor) (profile.Profile, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[p.AccountID]; ok {
		return profile.Profile{}, profile.ErrProfileExists
	}
	p.ID = newID()
	repo.db.table[p.AccountID] = &p
	return p, nil
}

func (repo *profileRepository) GetProfileByAccount(_ context.Context, accountID string, _ ...core.DBExecutor) (profile.Profile, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if p, ok := repo.db.table[accountID]; ok {
		return *p, nil
	}
	return profile.Profile{}, profile.ErrNotFound
}

func (repo *profileRepository) UpdateProfile(_ context.Context, p profile.Profile, _ ...core.DBExecutor) (profile.Profile, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[p.AccountID]; !ok {
		return profile.Profile{}, profile.ErrNotFound
	}
	repo.db.table[p.AccountID] = &p
	return p, nil
}

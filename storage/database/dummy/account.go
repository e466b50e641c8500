package dummydb

import (
	"context"
	"sort"

	"github.com/SandyWyper/Know-How/core"
	"github.com/SandyWyper/Know-How/core/account"
)

type accountRepository struct {
	db *accountTable
}

var _ account.Repository = (*accountRepository)(nil) // interface compliance check

func NewAccountRepository(db *DB) *accountRepository {
	return &accountRepository{db: db.account}
}

func isExcluded(acc account.Account, excluded []account.Account) bool {
	for _, excl := range excluded {
		if excl.ID == acc.ID {
			return true
		}
	}
	return false
}

func (repo *accountRepository) CheckUniqueness(_ context.Context, username, email string, excluded []account.Account, _ ...core.DBExecutor) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, acc := range repo.db.table {
		if isExcluded(*acc, excluded) {
			continue
		}
		if username != "" && acc.Username == username {
			return account.ErrUsernameExists
		}
		if email != "" && acc.Email == email {
			return account.ErrEmailExists
		}
	}
	return nil
}

func (repo *accountRepository) CreateAccount(ctx context.Context, acc account.Account, _ ...core.DBExecutor) (account.Account, error) {
	if err := repo.CheckUniqueness(ctx, acc.Username, acc.Email, nil); err != nil {
		return account.Account{}, err
	}

	repo.db.Lock()
	defer repo.db.Unlock()

	acc.ID = newID()
	repo.db.table[acc.ID] = &acc
	return acc, nil
}

func (repo *accountRepository) GetAccount(_ context.Context, filter account.GetFilter, _ ...core.DBExecutor) (account.Account, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if filter.ID != "" {
		if acc, ok := repo.db.table[filter.ID]; ok {
			return *acc, nil
		}
		return account.Account{}, account.ErrNotFound
	}
	for _, acc := range repo.db.table {
		switch {
		case filter.Username != "" && acc.Username == filter.Username,
			filter.Email != "" && acc.Email == filter.Email,
			filter.UsernameOrEmail != "" && (acc.Username == filter.UsernameOrEmail || acc.Email == filter.UsernameOrEmail):
			return *acc, nil
		}
	}
	return account.Account{}, account.ErrNotFound
}

func (repo *accountRepository) QueryAccountsByID(_ context.Context, ids []string, _ ...core.DBExecutor) ([]account.Account, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	accs := make([]account.Account, 0, len(ids))
	for _, id := range ids {
		if acc, ok := repo.db.table[id]; ok {
			accs = append(accs, *acc)
		}
	}
	sort.Slice(accs, func(i, j int) bool { return accs[i].Username < accs[j].Username })
	return accs, nil
}

func (repo *accountRepository) UpdateAccount(ctx context.Context, acc account.Account, _ ...core.DBExecutor) (account.Account, error) {
	if err := repo.CheckUniqueness(ctx, "", acc.Email, []account.Account{acc}); err != nil {
		return account.Account{}, err
	}

	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[acc.ID]; !ok {
		return account.Account{}, account.ErrNotFound
	}
	repo.db.table[acc.ID] = &acc
	return acc, nil
}

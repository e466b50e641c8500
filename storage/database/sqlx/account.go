package sqlxrepos

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/SandyWyper/Know-How/core"
	"github.com/SandyWyper/Know-How/core/account"
	"github.com/SandyWyper/Know-How/storage/database"
)

var accountColumns = []string{
	"id", "username", "email", "first_name", "last_name", "is_active", "roles",
	"password_hash", "created_at", "updated_at", "last_login",
}

type accountRow struct {
	ID           string         `db:"id"`
	Username     string         `db:"username"`
	Email        null.String    `db:"email"`
	FirstName    string         `db:"first_name"`
	LastName     string         `db:"last_name"`
	IsActive     bool           `db:"is_active"`
	Roles        pq.StringArray `db:"roles"`
	PasswordHash []byte         `db:"password_hash"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
	LastLogin    null.Time      `db:"last_login"`
}

func toAccountRow(acc account.Account) accountRow {
	roles := acc.Roles
	if roles == nil {
		roles = []string{}
	}
	return accountRow{
		ID:           acc.ID,
		Username:     acc.Username,
		Email:        null.NewString(acc.Email, acc.Email != ""),
		FirstName:    acc.FirstName,
		LastName:     acc.LastName,
		IsActive:     acc.IsActive,
		Roles:        roles,
		PasswordHash: acc.PasswordHash,
		CreatedAt:    acc.CreatedAt.UTC(),
		UpdatedAt:    acc.UpdatedAt.UTC(),
		LastLogin:    null.NewTime(acc.LastLogin.UTC(), !acc.LastLogin.IsZero()),
	}
}

func (row accountRow) account() account.Account {
	return account.Account{
		ID:           row.ID,
		Username:     row.Username,
		Email:        row.Email.String,
		FirstName:    row.FirstName,
		LastName:     row.LastName,
		IsActive:     row.IsActive,
		Roles:        row.Roles,
		PasswordHash: row.PasswordHash,
		CreatedAt:    row.CreatedAt.UTC(),
		UpdatedAt:    row.UpdatedAt.UTC(),
		LastLogin:    row.LastLogin.Time.UTC(),
	}
}

type accountRepository struct {
	repo
}

var _ account.Repository = (*accountRepository)(nil) // interface compliance check

func NewAccountRepository(exec core.DBExecutor) *accountRepository {
	return &accountRepository{repo{exec: exec}}
}

func (r accountRepository) CheckUniqueness(ctx context.Context, username, email string, excluded []account.Account, exec ...core.DBExecutor) error {
	exe := r.getExec(exec)
	ids := make([]string, 0, len(excluded))
	for _, acc := range excluded {
		ids = append(ids, acc.ID)
	}
	taken := func(col, val string) (bool, error) {
		b := psql.Select().From("accounts").Where(sq.Eq{col: val})
		if len(ids) > 0 {
			b = b.Where(sq.NotEq{"id": ids})
		}
		return r.exists(ctx, exe, b)
	}

	if username != "" {
		found, err := taken("username", username)
		if err != nil {
			return errors.Wrap(err, "checking username uniqueness")
		}
		if found {
			return account.ErrUsernameExists
		}
	}
	if email != "" {
		found, err := taken("email", email)
		if err != nil {
			return errors.Wrap(err, "checking email uniqueness")
		}
		if found {
			return account.ErrEmailExists
		}
	}
	return nil
}

func (r accountRepository) CreateAccount(ctx context.Context, acc account.Account, exec ...core.DBExecutor) (account.Account, error) {
	acc.ID = newID()
	row := toAccountRow(acc)
	q := psql.Insert("accounts").Columns(accountColumns...).Values(
		row.ID, row.Username, row.Email, row.FirstName, row.LastName, row.IsActive, row.Roles,
		row.PasswordHash, row.CreatedAt, row.UpdatedAt, row.LastLogin,
	)
	if _, err := r.execute(ctx, r.getExec(exec), q); err != nil {
		return account.Account{}, r.trapAccountUniqueErr(err, "inserting account")
	}
	return row.account(), nil
}

func (r accountRepository) trapAccountUniqueErr(err error, msg string) error {
	if database.IsUniqueViolation(err) {
		switch constraintOf(err) {
		case "accounts_username_key":
			return account.ErrUsernameExists
		case "accounts_email_key":
			return account.ErrEmailExists
		}
	}
	return trapUniqueErr(err, msg)
}

func (r accountRepository) GetAccount(ctx context.Context, filter account.GetFilter, exec ...core.DBExecutor) (account.Account, error) {
	b := psql.Select(accountColumns...).From("accounts")
	switch {
	case filter.ID != "":
		if !isUUID(filter.ID) {
			return account.Account{}, account.ErrNotFound
		}
		b = b.Where(sq.Eq{"id": filter.ID})
	case filter.Username != "":
		b = b.Where(sq.Eq{"username": filter.Username})
	case filter.Email != "":
		b = b.Where(sq.Eq{"email": filter.Email})
	case filter.UsernameOrEmail != "":
		b = b.Where(sq.Or{
			sq.Eq{"username": filter.UsernameOrEmail},
			sq.Eq{"email": filter.UsernameOrEmail},
		})
	default:
		return account.Account{}, account.ErrNotFound
	}

	var row accountRow
	if err := r.get(ctx, r.getExec(exec), &row, b.Limit(1)); err != nil {
		return account.Account{}, trapNoRowsErr(err, account.ErrNotFound, "finding account")
	}
	return row.account(), nil
}

func (r accountRepository) QueryAccountsByID(ctx context.Context, ids []string, exec ...core.DBExecutor) ([]account.Account, error) {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if isUUID(id) {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return []account.Account{}, nil
	}

	var rows []accountRow
	b := psql.Select(accountColumns...).From("accounts").Where(sq.Eq{"id": valid}).OrderBy("username")
	if err := r.selectAll(ctx, r.getExec(exec), &rows, b); err != nil {
		return nil, errors.Wrap(err, "querying accounts")
	}
	accs := make([]account.Account, 0, len(rows))
	for _, row := range rows {
		accs = append(accs, row.account())
	}
	return accs, nil
}

func (r accountRepository) UpdateAccount(ctx context.Context, acc account.Account, exec ...core.DBExecutor) (account.Account, error) {
	row := toAccountRow(acc)
	q := psql.Update("accounts").SetMap(map[string]interface{}{
		"email":         row.Email,
		"first_name":    row.FirstName,
		"last_name":     row.LastName,
		"is_active":     row.IsActive,
		"roles":         row.Roles,
		"password_hash": row.PasswordHash,
		"updated_at":    row.UpdatedAt,
		"last_login":    row.LastLogin,
	}).Where(sq.Eq{"id": row.ID})

	n, err := r.execute(ctx, r.getExec(exec), q)
	if err != nil {
		return account.Account{}, r.trapAccountUniqueErr(err, "updating account")
	}
	if n == 0 {
		return account.Account{}, account.ErrNotFound
	}
	return row.account(), nil
}

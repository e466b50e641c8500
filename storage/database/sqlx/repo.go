package sqlxrepos

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/SandyWyper/Know-How/core"
	"github.com/SandyWyper/Know-How/storage/database"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// repo holds what every repository shares: its default executor and query helpers.
type repo struct {
	exec core.DBExecutor
}

// getExec returns the executor of the service's unit of work, or the repository's own.
func (r repo) getExec(svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 && svcExec[0] != nil {
		return svcExec[0]
	}
	return r.exec
}

func (r repo) get(ctx context.Context, exec core.DBExecutor, dest interface{}, b sq.SelectBuilder) error {
	query, args, err := b.ToSql()
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	return exec.GetContext(ctx, dest, query, args...)
}

func (r repo) selectAll(ctx context.Context, exec core.DBExecutor, dest interface{}, b sq.SelectBuilder) error {
	query, args, err := b.ToSql()
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	return exec.SelectContext(ctx, dest, query, args...)
}

func (r repo) exists(ctx context.Context, exec core.DBExecutor, b sq.SelectBuilder) (bool, error) {
	var found bool
	err := r.get(ctx, exec, &found, b.Columns("1").Prefix("SELECT EXISTS (").Suffix(")"))
	return found, err
}

// execute runs b and returns the number of affected rows.
func (r repo) execute(ctx context.Context, exec core.DBExecutor, b sq.Sqlizer) (int64, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "building query")
	}
	res, err := exec.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// trapNoRowsErr maps psql "no rows" err to notFound
func trapNoRowsErr(err, notFound error, msg string) error {
	if errors.Cause(err) == sql.ErrNoRows {
		return notFound
	}
	return errors.Wrap(err, msg)
}

// trapUniqueErr maps broken unique constraints to core.ErrUniqueViolation
func trapUniqueErr(err error, msg string) error {
	if database.IsUniqueViolation(err) {
		return errors.Wrapf(core.ErrUniqueViolation, "%s: %s", msg, errors.Cause(err).(*pq.Error).Constraint)
	}
	return errors.Wrap(err, msg)
}

func constraintOf(err error) string {
	if pqErr, ok := errors.Cause(err).(*pq.Error); ok {
		return pqErr.Constraint
	}
	return ""
}

func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func newID() string { return uuid.New().String() }

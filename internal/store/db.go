// Package store holds the Postgres queries for each table. Reads go through the
// pool; writes take the Execer of the caller's transaction.
package store

import (
	"context"
	"database/sql"
)

type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type Getter interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
}

type Selecter interface {
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

// DB is satisfied by *sqlx.DB.
type DB interface {
	Execer
	Getter
	Selecter
}

func exists(ctx context.Context, db Getter, query string, args ...any) (bool, error) {
	var found bool
	if err := db.GetContext(ctx, &found, query, args...); err != nil {
		return false, err
	}
	return found, nil
}

// affected turns an update or delete result into a row count, zero meaning
// the id matched nothing.
func affected(res sql.Result, err error) (int64, error) {
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

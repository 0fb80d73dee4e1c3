package repositories

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/skillswap/internal/logger"
	"github.com/sbilibin2017/skillswap/internal/models"
)

// TxGetter returns the transaction bound to ctx, or nil when there is none.
type TxGetter func(ctx context.Context) *sqlx.Tx

// executor picks the request transaction when one is bound to ctx.
func executor(ctx context.Context, db *sqlx.DB, txGetter TxGetter) sqlx.ExtContext {
	if txGetter != nil {
		if tx := txGetter(ctx); tx != nil {
			return tx
		}
	}
	return db
}

// logQuery logs the query on a single line.
func logQuery(query string, args []any, result any, err error) {
	logger.Log.Debugw("sql query",
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"result", result,
		"error", err,
	)
}

const (
	uniqueViolationCode       = "23505"
	stringDataRightTruncation = "22001"
	characterNotInRepertoire  = "22021"
)

// translateError maps driver errors onto model errors.
func translateError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case uniqueViolationCode:
		return models.ErrUniqueViolation
	case stringDataRightTruncation, characterNotInRepertoire:
		return models.ErrInvalidValue
	}
	return err
}

// containsPattern builds an ILIKE pattern matching s anywhere, or "" for an empty s.
func containsPattern(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

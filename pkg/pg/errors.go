package pg

import (
	"errors"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/apikit/core"
)

var (
	ErrFailedToOpenDBConnection = errors.New("failed to open db connection")
	ErrEmptyConnectionString    = errors.New("empty postgres connection string, use PG_CONN_URL env var")
	ErrHealthcheckFailed        = errors.New("healthcheck failed, connection is not available")
	ErrFailedToParseDBConfig    = errors.New("failed to parse db config")
)

// SQLSTATE codes for integrity violations.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// IsNotFoundError reports whether err is pgx.ErrNoRows.
func IsNotFoundError(err error) bool {
	return err != nil && errors.Is(err, pgx.ErrNoRows)
}

// IsDuplicateKeyError reports a unique constraint violation (SQLSTATE 23505).
func IsDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation
}

// IsForeignKeyViolationError reports a referential integrity violation (SQLSTATE 23503).
func IsForeignKeyViolationError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeForeignKeyViolation
}

var detailKey = regexp.MustCompile(`Key \(([^)]+)\)=`)

// ClassifyError converts integrity violations into *core.ConstraintError and
// returns any other error unchanged. It fits handler.WithClassifiers.
func ClassifyError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case codeUniqueViolation:
		return core.NewUniqueViolation(violatedColumn(pgErr)).Wrap(err)
	case codeForeignKeyViolation:
		return core.NewForeignKeyViolation().Wrap(err)
	}
	return err
}

func violatedColumn(pgErr *pgconn.PgError) string {
	if pgErr.ColumnName != "" {
		return pgErr.ColumnName
	}
	// Detail looks like: Key (email)=(a@b.c) already exists.
	if m := detailKey.FindStringSubmatch(pgErr.Detail); len(m) == 2 {
		cols := strings.Split(m[1], ",")
		return strings.TrimSpace(cols[0])
	}
	return ""
}

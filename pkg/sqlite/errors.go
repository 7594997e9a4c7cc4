package sqlite

import (
	"errors"
	"regexp"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/dmitrymomot/apikit/core"
)

var (
	ErrEmptyPath         = errors.New("empty sqlite path, use SQLITE_PATH env var")
	ErrFailedToOpen      = errors.New("failed to open sqlite database")
	ErrHealthcheckFailed = errors.New("sqlite healthcheck failed")
)

// Messages look like: UNIQUE constraint failed: users.email
var constraintColumn = regexp.MustCompile(`constraint failed: (\w+\.\w+)`)

// IsUniqueViolation reports a UNIQUE or PRIMARY KEY conflict.
func IsUniqueViolation(err error) bool {
	var sqlErr *sqlite.Error
	if !errors.As(err, &sqlErr) {
		return false
	}
	code := sqlErr.Code()
	return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}

// IsForeignKeyViolation reports a FOREIGN KEY conflict.
func IsForeignKeyViolation(err error) bool {
	var sqlErr *sqlite.Error
	return errors.As(err, &sqlErr) && sqlErr.Code() == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY
}

// ClassifyError converts constraint failures into *core.ConstraintError and
// returns any other error unchanged. It fits handler.WithClassifiers.
func ClassifyError(err error) error {
	switch {
	case IsUniqueViolation(err):
		return core.NewUniqueViolation(violatedColumn(err.Error())).Wrap(err)
	case IsForeignKeyViolation(err):
		return core.NewForeignKeyViolation().Wrap(err)
	}
	return err
}

func violatedColumn(msg string) string {
	m := constraintColumn.FindStringSubmatch(msg)
	if len(m) != 2 {
		return ""
	}
	col := m[1]
	if i := strings.LastIndexByte(col, '.'); i >= 0 {
		col = col[i+1:]
	}
	return col
}

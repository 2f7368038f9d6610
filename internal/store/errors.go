package store

import (
	"database/sql"
	"errors"

	"pantrysync/internal/model"

	"modernc.org/sqlite"
	sqlitelib "modernc.org/sqlite/lib"
)

// mapLocalErr classifies a database/sql or driver error into the local-store
// error taxonomy.
func mapLocalErr(op string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return model.NewLocalError(model.LocalNotFound, op, err)
	}

	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlitelib.SQLITE_FULL, sqlitelib.SQLITE_IOERR:
			return model.NewLocalError(model.LocalDiskFull, op, err)
		}
	}

	return model.NewLocalError(model.LocalUnknown, op, err)
}

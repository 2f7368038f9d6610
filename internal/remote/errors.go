package remote

import (
	"context"
	"errors"
	"net"
	"strings"

	"pantrysync/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// mapRemoteErr classifies a pgx/network error into the remote-store error
// taxonomy.
func mapRemoteErr(op string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return model.NewRemoteError(model.RemoteNotFound, op, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return model.NewRemoteError(model.RemoteTimeout, op, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return model.NewRemoteError(kindForSQLState(pgErr.Code), op, err)
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return model.NewRemoteError(model.RemoteNoInternet, op, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return model.NewRemoteError(model.RemoteTimeout, op, err)
		}
		return model.NewRemoteError(model.RemoteNoInternet, op, err)
	}

	// pgx surfaces a closed pool or a dead connection without a net.Error.
	if strings.Contains(err.Error(), "closed pool") ||
		strings.Contains(err.Error(), "conn closed") {
		return model.NewRemoteError(model.RemoteNoInternet, op, err)
	}

	return model.NewRemoteError(model.RemoteUnknown, op, err)
}

// kindForSQLState maps a PostgreSQL SQLSTATE to a remote error kind.
func kindForSQLState(code string) model.RemoteErrorKind {
	switch code {
	case "23505": // unique_violation
		return model.RemoteConflict
	case "40001": // serialization_failure
		return model.RemoteSerialization
	case "42501": // insufficient_privilege
		return model.RemoteForbidden
	case "57014": // query_canceled
		return model.RemoteTimeout
	case "53300": // too_many_connections
		return model.RemoteTooManyRequests
	}

	switch {
	case strings.HasPrefix(code, "28"): // invalid authorization
		return model.RemoteUnauthorized
	case strings.HasPrefix(code, "22"), strings.HasPrefix(code, "23"): // data/constraint
		return model.RemoteBadRequest
	case strings.HasPrefix(code, "53"), strings.HasPrefix(code, "58"),
		strings.HasPrefix(code, "XX"): // resources / system / internal
		return model.RemoteServerError
	}

	return model.RemoteUnknown
}

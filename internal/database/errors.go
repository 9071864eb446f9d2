package database

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ConnectionError indicates the MySQL server could not be reached or the
// connection died mid-call: dial failures, timeouts, dropped connections.
// Handlers treat it as grounds to mark the shared state disconnected.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return e.Err.Error()
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// QueryError indicates the server was reachable and answered with an error
// packet: bad SQL, an unknown table, denied access. The connection itself
// is healthy, so the shared state is left alone.
type QueryError struct {
	Err error
}

func (e *QueryError) Error() string {
	return e.Err.Error()
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// classify wraps a driver error by failure kind. An error packet from the
// server means the transport works; everything else at this layer involves
// the transport.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var serverErr *mysql.MySQLError
	if errors.As(err, &serverErr) {
		return &QueryError{Err: err}
	}
	return &ConnectionError{Err: err}
}

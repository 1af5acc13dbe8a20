package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

const (
	duplicateTableCode  = "42P07"
	duplicateObjectCode = "42710"
	undefinedTableCode  = "42P01"
	undefinedObjectCode = "42704"
)

// ServerError is the driver independent view of an error reported by the
// Postgres server.
type ServerError struct {
	Code     string
	Severity string
	Message  string
	Detail   string
	Hint     string
	Position int32
}

var classifiers = []func(error) (ServerError, bool){
	fromPgconn,
}

func registerClassifier(classify func(error) (ServerError, bool)) {
	classifiers = append(classifiers, classify)
}

// AsServerError extracts the server side details from err.
func AsServerError(err error) (ServerError, bool) {
	for _, classify := range classifiers {
		if serverErr, ok := classify(err); ok {
			return serverErr, true
		}
	}

	return ServerError{}, false
}

func SQLState(err error) string {
	serverErr, ok := AsServerError(err)
	if !ok {
		return ""
	}

	return serverErr.Code
}

func IsDuplicateObject(err error) bool {
	code := SQLState(err)

	return code == duplicateTableCode || code == duplicateObjectCode
}

func IsUndefinedObject(err error) bool {
	code := SQLState(err)

	return code == undefinedTableCode || code == undefinedObjectCode
}

// Fields describes err for logging. Errors that did not come from the server
// yield only the error itself.
func Fields(err error) []zap.Field {
	fields := []zap.Field{zap.Error(err)}

	serverErr, ok := AsServerError(err)
	if !ok {
		return fields
	}

	fields = append(fields,
		zap.String("db.sqlstate", serverErr.Code),
		zap.String("db.severity", serverErr.Severity),
	)
	if serverErr.Position > 0 {
		fields = append(fields, zap.Int32("db.position", serverErr.Position))
	}
	if serverErr.Detail != "" {
		fields = append(fields, zap.String("db.detail", serverErr.Detail))
	}
	if serverErr.Hint != "" {
		fields = append(fields, zap.String("db.hint", serverErr.Hint))
	}

	return fields
}

func fromPgconn(err error) (ServerError, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return ServerError{}, false
	}

	return ServerError{
		Code:     pgErr.Code,
		Severity: pgErr.Severity,
		Message:  pgErr.Message,
		Detail:   pgErr.Detail,
		Hint:     pgErr.Hint,
		Position: pgErr.Position,
	}, true
}

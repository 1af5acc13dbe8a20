//go:build !nopq

package dberrors

import (
	"errors"
	"strconv"

	"github.com/lib/pq"
)

func init() {
	registerClassifier(fromPq)
}

func fromPq(err error) (ServerError, bool) {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return ServerError{}, false
	}

	position, _ := strconv.ParseInt(pqErr.Position, 10, 32)

	return ServerError{
		Code:     string(pqErr.Code),
		Severity: pqErr.Severity,
		Message:  pqErr.Message,
		Detail:   pqErr.Detail,
		Hint:     pqErr.Hint,
		Position: int32(position),
	}, true
}

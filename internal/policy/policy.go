package policy

import (
	"errors"

	"hotelapi/internal/model"
)

// ErrForbidden is returned when an employee's role does not allow the requested work.
var ErrForbidden = errors.New("employee is not allowed to perform this action")

// Authorizer decides whether an employee may act.
type Authorizer func(e *model.Employee) error

// Housekeeping allows every role except reception staff to start and finish cleanings.
func Housekeeping(e *model.Employee) error {
	if e == nil || e.Role == model.RoleReceptionist {
		return ErrForbidden
	}
	return nil
}

package handler

// UserError is an error whose message is meant for the user who issued the
// command, not for the logs. Rejected input (bad time expressions,
// out-of-range values, missing messages) is a UserError, never a system
// failure.
type UserError struct {
	Message string
}

func (e *UserError) Error() string {
	return e.Message
}

var _ error = (*UserError)(nil)

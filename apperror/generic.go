package apperror

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrNoData          = Error("no records found")
	ErrMultipleRecords = Error("mulitple records found")
	ErrGuest           = Error("user is guest")
	ErrDenied          = Error("not allowed") // eg. upd/del not allowed
	ErrConflict        = Error("state changed by another request")
)

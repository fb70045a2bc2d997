package game

import (
	"errors"
	"fmt"
)

// Kind groups engine errors by how a caller should react to them.
type Kind string

const (
	// KindValidation is a malformed request, rejected before touching state.
	KindValidation Kind = "ValidationError"
	// KindIllegalAction is a well-formed action the rules do not allow right now.
	KindIllegalAction Kind = "IllegalAction"
	// KindSequence is a street or hand transition requested at the wrong time.
	KindSequence Kind = "SequenceError"
	// KindNotFound is an unknown hand or table id.
	KindNotFound Kind = "NotFoundError"
	// KindBusy means another mutation is in flight; nothing changed and the
	// request may be retried.
	KindBusy Kind = "BusyError"
)

// Code identifies a specific rejection.
type Code string

const (
	CodeInvalid                 Code = "Invalid"
	CodeOutOfTurn               Code = "OutOfTurn"
	CodePlayerNotActive         Code = "PlayerNotActive"
	CodeActionNotAllowedInState Code = "ActionNotAllowedInState"
	CodeAmountBelowMinimum      Code = "AmountBelowMinimum"
	CodeAmountExceedsStack      Code = "AmountExceedsStack"
	CodeStreetNotComplete       Code = "StreetNotComplete"
	CodeWrongStreet             Code = "WrongStreet"
	CodeHandAlreadyComplete     Code = "HandAlreadyComplete"
	CodeNoHandInProgress        Code = "NoHandInProgress"
	CodeHandNotFound            Code = "HandNotFound"
	CodeTableNotFound           Code = "TableNotFound"
	CodeBusy                    Code = "Busy"
)

// Error is the typed result of every engine rejection. The state the
// rejected request was applied to is never modified.
type Error struct {
	Kind    Kind
	Code    Code
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return string(e.Code) + ": " + e.Message
}

// Is matches on Code so that detailed errors compare equal to the sentinels.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// Sentinels for errors.Is.
var (
	ErrInvalid                 = &Error{Kind: KindValidation, Code: CodeInvalid}
	ErrOutOfTurn               = &Error{Kind: KindIllegalAction, Code: CodeOutOfTurn}
	ErrPlayerNotActive         = &Error{Kind: KindIllegalAction, Code: CodePlayerNotActive}
	ErrActionNotAllowedInState = &Error{Kind: KindIllegalAction, Code: CodeActionNotAllowedInState}
	ErrAmountBelowMinimum      = &Error{Kind: KindIllegalAction, Code: CodeAmountBelowMinimum}
	ErrAmountExceedsStack      = &Error{Kind: KindIllegalAction, Code: CodeAmountExceedsStack}
	ErrStreetNotComplete       = &Error{Kind: KindSequence, Code: CodeStreetNotComplete}
	ErrWrongStreet             = &Error{Kind: KindSequence, Code: CodeWrongStreet}
	ErrHandAlreadyComplete     = &Error{Kind: KindSequence, Code: CodeHandAlreadyComplete}
	ErrNoHandInProgress        = &Error{Kind: KindSequence, Code: CodeNoHandInProgress}
	ErrHandNotFound            = &Error{Kind: KindNotFound, Code: CodeHandNotFound}
	ErrTableNotFound           = &Error{Kind: KindNotFound, Code: CodeTableNotFound}
	ErrBusy                    = &Error{Kind: KindBusy, Code: CodeBusy, Message: "table is processing another request"}
)

// Errorf builds a detailed error carrying the kind of the given sentinel.
func Errorf(sentinel *Error, format string, args ...any) *Error {
	return &Error{Kind: sentinel.Kind, Code: sentinel.Code, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of an engine error, or "" for anything else.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsRetryable reports whether err signals that no mutation happened and the
// same request can be sent again.
func IsRetryable(err error) bool {
	return KindOf(err) == KindBusy
}

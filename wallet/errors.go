package wallet

import (
	"errors"
	"fmt"
)

// Code classifies a failure for the request/response boundary.
type Code string

const (
	CodeMissingField    Code = "MissingField"
	CodeInvalidField    Code = "InvalidField"
	CodeInvalidMnemonic Code = "InvalidMnemonic"
	CodeInvalidPassword Code = "InvalidPassword"
	CodeNotFound        Code = "NotFound"
	CodeLocked          Code = "Locked"
	CodeLedger          Code = "LedgerUnavailable"
	CodeInternal        Code = "Internal"
)

// Sentinels matched by errors.Is against an *Error of the same code.
var (
	ErrMissingField    = errors.New("missing required field")
	ErrInvalidField    = errors.New("invalid field")
	ErrInvalidMnemonic = errors.New("invalid recovery phrase")
	ErrInvalidPassword = errors.New("wrong password")
	ErrNotFound        = errors.New("no wallet found")
	ErrLocked          = errors.New("wallet is locked")
	ErrLedger          = errors.New("ledger unavailable")
	ErrInternal        = errors.New("internal error")
)

var codeSentinels = map[Code]error{
	CodeMissingField:    ErrMissingField,
	CodeInvalidField:    ErrInvalidField,
	CodeInvalidMnemonic: ErrInvalidMnemonic,
	CodeInvalidPassword: ErrInvalidPassword,
	CodeNotFound:        ErrNotFound,
	CodeLocked:          ErrLocked,
	CodeLedger:          ErrLedger,
	CodeInternal:        ErrInternal,
}

// Error is returned by every Service verb.
type Error struct {
	Code Code
	Op   string
	// Msg is the user-facing message.
	Msg string
	Err error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Msg
	}
	return e.Op + ": " + e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel for e.Code.
func (e *Error) Is(target error) bool {
	return codeSentinels[e.Code] == target
}

func newError(op string, code Code, msg string, cause error) *Error {
	return &Error{Code: code, Op: op, Msg: msg, Err: cause}
}

func missingField(op, field string) *Error {
	return newError(op, CodeMissingField, field+" is required", nil)
}

func invalidField(op, field, reason string) *Error {
	return newError(op, CodeInvalidField, fmt.Sprintf("invalid %s: %s", field, reason), nil)
}

func internal(op string, cause error) *Error {
	return newError(op, CodeInternal, "internal error", cause)
}

// CodeOf returns the code of err, or CodeInternal for foreign errors.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

package wallet

import (
	"context"
	"errors"
	"strings"

	"github.com/AlexZinkM/walletkeeper/internal/tier"
)

// Operation names accepted by Dispatch.
const (
	OpCreate  = "create"
	OpRestore = "restore"
	OpVerify  = "verify"
	OpUnlock  = "unlock"
	OpLock    = "lock"
	OpClear   = "clear"
	OpSetTier = "tier"
	OpPasswd  = "passwd"
	OpReveal  = "reveal"
)

// Request is the operation-name-plus-fields form of a wallet call.
type Request struct {
	Operation   string `json:"operation"`
	Password    string `json:"password,omitempty"`
	NewPassword string `json:"newPassword,omitempty"`
	Mnemonic    string `json:"mnemonic,omitempty"`
	WordCount   int    `json:"wordCount,omitempty"`
	Tier        string `json:"tier,omitempty"`
}

// Response carries either the success payload or Code and Error.
type Response struct {
	PublicAddress string    `json:"publicAddress,omitempty"`
	IsValid       *bool     `json:"isValid,omitempty"`
	Mnemonic      string    `json:"mnemonic,omitempty"`
	Tier          tier.Tier `json:"tier,omitempty"`
	WordCount     int       `json:"wordCount,omitempty"`
	Unlocked      *bool     `json:"unlocked,omitempty"`
	Warnings      []string  `json:"warnings,omitempty"`
	Code          Code      `json:"code,omitempty"`
	Error         string    `json:"error,omitempty"`
}

// OK reports whether the response carries no error.
func (r *Response) OK() bool { return r.Code == "" }

// Dispatch runs req for identity and never returns a Go error: failures
// are encoded in Response.Code and Response.Error.
func (s *Service) Dispatch(ctx context.Context, identity string, req Request) *Response {
	password := []byte(req.Password)
	defer clear(password)

	var (
		res *Result
		err error
	)
	switch strings.ToLower(strings.TrimSpace(req.Operation)) {
	case OpCreate:
		res, err = s.Create(ctx, identity, req.WordCount, password)
	case OpRestore:
		res, err = s.Restore(ctx, identity, req.Mnemonic, password)
	case OpVerify:
		valid, err := s.CheckPhrase(req.Mnemonic)
		if err != nil {
			return errorResponse(err)
		}
		return &Response{IsValid: &valid}
	case OpUnlock:
		res, err = s.Unlock(ctx, identity, password)
	case OpLock:
		if err := requireIdentity(OpLock, identity); err != nil {
			return errorResponse(err)
		}
		s.Lock(identity)
		unlocked := false
		return &Response{Unlocked: &unlocked}
	case OpClear:
		if err := s.Clear(ctx, identity); err != nil {
			return errorResponse(err)
		}
		return &Response{}
	case OpSetTier:
		t, err := ParseTier(req.Tier)
		if err != nil {
			return errorResponse(err)
		}
		st, err := s.SetTier(ctx, identity, t)
		if err != nil {
			return errorResponse(err)
		}
		return &Response{PublicAddress: st.Address, Tier: st.Tier, WordCount: st.WordCount}
	case OpPasswd:
		newPassword := []byte(req.NewPassword)
		defer clear(newPassword)
		res, err = s.ChangePassword(ctx, identity, password, newPassword)
	case OpReveal:
		res, err = s.RevealMnemonic(ctx, identity, password)
	case "":
		return errorResponse(missingField("dispatch", "operation"))
	default:
		return errorResponse(invalidField("dispatch", "operation", "unknown operation "+req.Operation))
	}
	if err != nil {
		return errorResponse(err)
	}
	return &Response{
		PublicAddress: res.Address,
		Mnemonic:      res.Mnemonic,
		Tier:          res.Tier,
		WordCount:     res.WordCount,
		Warnings:      res.Warnings,
	}
}

func errorResponse(err error) *Response {
	code := CodeOf(err)
	msg := err.Error()
	var e *Error
	if errors.As(err, &e) {
		msg = e.Msg
	}
	if code == CodeInternal {
		msg = "internal error"
	}
	return &Response{Code: code, Error: msg}
}

package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// ErrNotTerminal is returned when a password prompt has no terminal.
var ErrNotTerminal = errors.New("stdin is not a terminal: run interactively to enter password")

var errInterrupted = errors.New("password entry interrupted")

// PromptPassword prompts for a password on the terminal without echo.
// onKey, if set, is called once per keystroke with the key byte so the
// caller can sample typing rhythm; it never sees the assembled password.
// Caller must zero the returned slice after use.
func PromptPassword(prompt string, onKey func(b byte)) ([]byte, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, ErrNotTerminal
	}
	fmt.Fprint(os.Stderr, prompt)
	defer fmt.Fprintln(os.Stderr)

	if onKey == nil {
		raw, err := term.ReadPassword(fd)
		if err != nil {
			return nil, fmt.Errorf("failed to read password: %w", err)
		}
		return raw, nil
	}

	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	defer term.Restore(fd, state)

	return readPassword(os.Stdin, onKey)
}

// readPassword reads one line in raw mode, handling backspace and ^C/^D.
func readPassword(r io.Reader, onKey func(b byte)) ([]byte, error) {
	var (
		buf []byte
		b   [1]byte
	)
	for {
		n, err := r.Read(b[:])
		if n == 0 {
			if err == nil {
				continue
			}
			if errors.Is(err, io.EOF) && len(buf) > 0 {
				return buf, nil
			}
			clear(buf)
			return nil, fmt.Errorf("failed to read password: %w", err)
		}
		if onKey != nil {
			onKey(b[0])
		}
		switch b[0] {
		case '\r', '\n':
			return buf, nil
		case 3, 4: // ^C, ^D
			clear(buf)
			return nil, errInterrupted
		case 8, 127: // backspace, delete
			if len(buf) > 0 {
				buf[len(buf)-1] = 0
				buf = buf[:len(buf)-1]
			}
		default:
			buf = append(buf, b[0])
		}
	}
}

// PromptNewPassword prompts twice and fails unless both entries match.
func PromptNewPassword(onKey func(b byte)) ([]byte, error) {
	first, err := PromptPassword("New wallet password: ", onKey)
	if err != nil {
		return nil, err
	}
	second, err := PromptPassword("Repeat password: ", onKey)
	if err != nil {
		clear(first)
		return nil, err
	}
	defer clear(second)

	if string(first) != string(second) {
		clear(first)
		return nil, errors.New("passwords do not match")
	}
	if len(first) == 0 {
		return nil, errors.New("password cannot be empty")
	}
	return first, nil
}

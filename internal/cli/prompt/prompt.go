// Package prompt читает пароли без эха в терминале.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrMismatch - пароль и подтверждение не совпали.
var ErrMismatch = errors.New("passwords do not match")

// Prompter запрашивает пароли у пользователя.
type Prompter interface {
	// Password запрашивает существующий пароль.
	Password(label string) (string, error)
	// NewPassword запрашивает новый пароль с подтверждением.
	NewPassword(label string) (string, error)
}

// Terminal читает пароль из терминала без эха. Если stdin не терминал
// (пароль передан через pipe), читает строки как есть.
type Terminal struct {
	in     *os.File
	out    io.Writer
	reader *bufio.Reader
}

// NewTerminal создаёт Prompter поверх stdin/stderr.
func NewTerminal() *Terminal {
	return &Terminal{in: os.Stdin, out: os.Stderr}
}

// Password реализует Prompter.
func (t *Terminal) Password(label string) (string, error) {
	fmt.Fprintf(t.out, "%s: ", label)
	fd := int(t.in.Fd())
	if term.IsTerminal(fd) {
		pw, err := term.ReadPassword(fd)
		fmt.Fprintln(t.out)
		if err != nil {
			return "", err
		}
		return string(pw), nil
	}
	if t.reader == nil {
		t.reader = bufio.NewReader(t.in)
	}
	return readLine(t.reader)
}

// NewPassword реализует Prompter.
func (t *Terminal) NewPassword(label string) (string, error) {
	return confirm(t, label)
}

// Reader - Prompter поверх произвольного io.Reader: по строке на запрос.
type Reader struct {
	r *bufio.Reader
}

// NewReader создаёт Reader.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Password реализует Prompter.
func (r *Reader) Password(string) (string, error) {
	return readLine(r.r)
}

// NewPassword реализует Prompter.
func (r *Reader) NewPassword(label string) (string, error) {
	return confirm(r, label)
}

func confirm(p Prompter, label string) (string, error) {
	pw1, err := p.Password(label)
	if err != nil {
		return "", err
	}
	pw2, err := p.Password("Confirm " + strings.ToLower(label))
	if err != nil {
		return "", err
	}
	if pw1 != pw2 {
		return "", ErrMismatch
	}
	return pw1, nil
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

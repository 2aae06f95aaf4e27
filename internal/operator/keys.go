// Package operator reads the operator's single-key commands from the terminal.
package operator

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"strings"
	"unicode"

	"golang.org/x/term"
)

// Key is an operator command.
type Key int

const (
	KeyCapture Key = iota + 1 // c: take the registration sample
	KeyQuit                   // q, Esc or Ctrl+C: stop the loop
)

func (k Key) String() string {
	switch k {
	case KeyCapture:
		return "capture"
	case KeyQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// parseKey maps an input character to a command.
func parseKey(r rune) (Key, bool) {
	switch r {
	case 'c', 'C':
		return KeyCapture, true
	case 'q', 'Q', 0x03, 0x1b:
		return KeyQuit, true
	}
	return 0, false
}

// Read streams commands from r until EOF. With byteMode every byte is a key
// press; otherwise the first non-blank character of each line is.
func Read(r io.Reader, byteMode bool) <-chan Key {
	ch := make(chan Key, 8)
	go func() {
		defer close(ch)
		if byteMode {
			buf := make([]byte, 1)
			for {
				n, err := r.Read(buf)
				if n == 1 {
					if k, ok := parseKey(rune(buf[0])); ok {
						ch <- k
					}
				}
				if err != nil {
					return
				}
			}
		}

		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			line := strings.TrimLeftFunc(scanner.Text(), unicode.IsSpace)
			if line == "" {
				continue
			}
			if k, ok := parseKey([]rune(line)[0]); ok {
				ch <- k
			}
		}
	}()
	return ch
}

// Terminal is the operator's input. When stdin is a TTY it is switched to raw
// mode so single key presses arrive without Enter.
type Terminal struct {
	fd    int
	state *term.State
	keys  <-chan Key
}

// Open starts reading commands from f.
func Open(f *os.File) (*Terminal, error) {
	t := &Terminal{fd: int(f.Fd())}
	if term.IsTerminal(t.fd) {
		state, err := term.MakeRaw(t.fd)
		if err != nil {
			return nil, err
		}
		t.state = state
	}
	t.keys = Read(f, t.state != nil)
	return t, nil
}

// Keys returns the command channel. It is closed on end of input.
func (t *Terminal) Keys() <-chan Key {
	return t.keys
}

// Raw reports whether the terminal is in raw mode.
func (t *Terminal) Raw() bool {
	return t.state != nil
}

// Restore returns the terminal to its previous mode.
func (t *Terminal) Restore() error {
	if t.state == nil {
		return nil
	}
	err := term.Restore(t.fd, t.state)
	t.state = nil
	return err
}

// Writer adapts w for output while the terminal is raw, where a bare line
// feed no longer returns the carriage.
func (t *Terminal) Writer(w io.Writer) io.Writer {
	if t.state == nil {
		return w
	}
	return crlfWriter{w: w}
}

type crlfWriter struct {
	w io.Writer
}

func (c crlfWriter) Write(p []byte) (int, error) {
	if _, err := c.w.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))); err != nil {
		return 0, err
	}
	return len(p), nil
}

package cli

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Test seams for terminal access.
var (
	readPassword    = term.ReadPassword
	stdinIsTerminal = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }
	readFile        = os.ReadFile
)

// GetSimpleText prints a prompt to w and reads a single line of input from reader.
// The trailing newline is trimmed. If EOF occurs after some input was read,
// the partial line is returned.
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetSecretLine reads one line without echo when stdin is a terminal, and
// from reader otherwise. The caller must wipe the result.
func GetSecretLine(reader *bufio.Reader, prompt string, w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprint(w, prompt+": "); err != nil {
		return nil, err
	}
	if stdinIsTerminal() {
		b, err := readPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(w)
		if err != nil {
			return nil, err
		}
		return bytes.TrimSpace(b), nil
	}

	line, err := reader.ReadBytes('\n')
	if err != nil && !(errors.Is(err, io.EOF) && len(line) > 0) {
		return nil, err
	}
	return bytes.TrimSpace(line), nil
}

// ReadKeyMaterial turns what the user entered into PEM/OpenSSH bytes.
// "@path" loads the file; otherwise literal \n escapes are expanded. The
// input slice is wiped when a copy is produced.
func ReadKeyMaterial(entered []byte) ([]byte, error) {
	if len(entered) > 1 && entered[0] == '@' {
		path := strings.TrimSpace(string(entered[1:]))
		b, err := readFile(path)
		if err != nil {
			return nil, fmt.Errorf("read key file: %w", err)
		}
		return b, nil
	}
	return expandEscapes(entered), nil
}

// expandEscapes replaces the two-character sequences \n and \r\n with real
// newlines, as found in keys copied out of a JSON response body. Input that
// already contains newlines is returned unchanged.
func expandEscapes(b []byte) []byte {
	if bytes.IndexByte(b, '\n') >= 0 || !bytes.Contains(b, []byte(`\n`)) {
		return b
	}
	out := bytes.ReplaceAll(b, []byte(`\r\n`), []byte("\n"))
	out = bytes.ReplaceAll(out, []byte(`\n`), []byte("\n"))
	for i := range b {
		b[i] = 0
	}
	return out
}

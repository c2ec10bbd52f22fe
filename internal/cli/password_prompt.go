package cli

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

var (
	errStdinUnavailable = errors.New("stdin unavailable")
	errEmptyPassword    = errors.New("password must not be empty")
)

// readPasswordLine reads one line and strips the line terminator. An empty
// line is rejected.
func readPasswordLine(reader io.Reader) ([]byte, error) {
	line, err := bufio.NewReader(reader).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return nil, errEmptyPassword
	}
	return []byte(line), nil
}

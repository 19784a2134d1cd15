package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

type LineReader interface {
	ReadLine() (string, error)
}

type Reader struct {
	reader *bufio.Reader
}

func NewReader(r io.Reader) *Reader {
	return &Reader{reader: bufio.NewReader(r)}
}

// ReadLine returns the next line without its line ending. A final line that
// is not newline-terminated is returned before io.EOF.
func (r *Reader) ReadLine() (string, error) {
	str, err := r.reader.ReadString('\n')
	if errors.Is(err, io.EOF) && str != "" {
		err = nil
	}
	if err != nil {
		if errors.Is(err, io.EOF) {
			return "", io.EOF
		}
		return "", fmt.Errorf("read line: %w", err)
	}

	str = strings.TrimSuffix(str, "\n")
	return strings.TrimSuffix(str, "\r"), nil
}

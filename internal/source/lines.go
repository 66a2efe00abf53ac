package source

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"github.com/codalotl/filediff/internal/diff"
)

// ReadLines reads r to EOF and splits it into lines. Lines are terminated by "\n", "\r\n", or a lone "\r"; terminators are not included. A final terminator does not
// produce an extra empty line.
func ReadLines(r io.Reader) (diff.Lines, error) {
	br := bufio.NewReader(r)
	var lines diff.Lines
	var cur strings.Builder
	pendingCR := false

	for {
		b, err := br.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		if pendingCR {
			pendingCR = false
			if b == '\n' {
				continue
			}
		}
		switch b {
		case '\n':
			lines = append(lines, cur.String())
			cur.Reset()
		case '\r':
			lines = append(lines, cur.String())
			cur.Reset()
			pendingCR = true
		default:
			cur.WriteByte(b)
		}
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines, nil
}

// FilterBlank returns lines without the lines that are empty after trimming whitespace. The input is not modified.
func FilterBlank(lines diff.Lines) diff.Lines {
	var out diff.Lines
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		out = append(out, l)
	}
	return out
}

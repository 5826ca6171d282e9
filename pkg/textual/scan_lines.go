package textual

import (
	"bytes"
	"strings"
)

// ScanLines is a split function for a [bufio.Scanner] that returns each line
// of text, keeping any trailing end-of-line marker. The returned line may
// be empty. It is different from the bufio.ScanLines that drops the marker.
func ScanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	// No data and nothing more to read.
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	// Look for '\n'. If found, include it in the token.
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return i + 1, data[:i+1], nil
	}

	// If we're at EOF, return the final (non-newline-terminated) line.
	if atEOF {
		return len(data), data, nil
	}

	// Request more data.
	return 0, nil, nil
}

// SplitTerminator separates a line produced by ScanLines into its content and
// its end-of-line marker ("\n", "\r\n" or "" for a final unterminated line).
func SplitTerminator(line string) (body, eol string) {
	if !strings.HasSuffix(line, "\n") {
		return line, ""
	}
	if strings.HasSuffix(line, "\r\n") {
		return line[:len(line)-2], "\r\n"
	}
	return line[:len(line)-1], "\n"
}

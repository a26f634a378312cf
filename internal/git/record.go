package git

import (
	"fmt"
	"io"
	"strings"
)

// Record is the data needed to print one commit the way
// `git log --date=short` does.
type Record struct {
	Hash    string
	Author  string
	Email   string
	Date    string
	Message string
}

// FormatRecord writes r in the medium pretty format: header lines, a
// blank line, the message indented by four spaces, and a trailing blank line.
func FormatRecord(w io.Writer, r Record) error {
	if _, err := fmt.Fprintf(w, "%s%s\nAuthor: %s <%s>\nDate:   %s\n\n", recordMarker, r.Hash, r.Author, r.Email, r.Date); err != nil {
		return err
	}

	message := strings.TrimRight(r.Message, "\n")
	for _, line := range strings.Split(message, "\n") {
		if _, err := fmt.Fprintf(w, "    %s\n", line); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, "\n")
	return err
}

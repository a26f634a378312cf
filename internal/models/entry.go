package models

import "fmt"

// LogEntry is one record of `git log` output for the viewed path.
// Any field may be empty when the record was truncated.
type LogEntry struct {
	Hash    string
	Author  string
	Date    string
	Comment string
}

// ShortHash returns the abbreviated commit hash used in list rows.
func (e LogEntry) ShortHash() string {
	if len(e.Hash) > 7 {
		return e.Hash[:7]
	}
	return e.Hash
}

func (e LogEntry) String() string {
	return fmt.Sprintf("author : %s | comment : %s | date : %s | %s", e.Author, e.Comment, e.Date, e.Hash)
}

package git

import (
	"bufio"
	"regexp"
	"strings"

	"github.com/Johannes-Berggren/GitHistory/internal/logger"
	"github.com/Johannes-Berggren/GitHistory/internal/models"
)

const (
	recordMarker = "commit "
	authorLabel  = "Author:"
	dateLabel    = "Date:"
)

// Records start with the marker at the beginning of a line, so a message
// body mentioning "commit " does not split its record.
var recordStart = regexp.MustCompile(`(?m)^` + recordMarker)

// Removes every line that is nothing but line-ending characters, so the
// comment lands on the fourth line of a record.
var blankLines = regexp.MustCompile(`(?m)^[\r\n]+`)

// ParseLog turns `git log --date=short` output into entries, one per
// record, in input order. Truncated or malformed records yield partially
// filled entries rather than an error.
//
// Expected record layout:
//
//	commit <hash>
//	Author: <name> <<email>>
//	Date:   YYYY-MM-DD
//
//	    <comment>
func ParseLog(raw string) []models.LogEntry {
	entries := []models.LogEntry{}

	fragments := recordStart.Split(raw, -1)
	if preamble := strings.TrimSpace(fragments[0]); preamble != "" {
		logger.Named("parser").WithField("text", preamble).Debug("skipping text before first record")
	}

	for _, fragment := range fragments[1:] {
		text := blankLines.ReplaceAllString(fragment, "")
		if strings.TrimSpace(text) == "" {
			continue
		}
		entries = append(entries, parseRecord(text))
	}

	return entries
}

func parseRecord(text string) models.LogEntry {
	var entry models.LogEntry
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), len(text)+1)

	for i := 0; i < 4 && scanner.Scan(); i++ {
		line := scanner.Text()
		switch i {
		case 0:
			entry.Hash = line
		case 1:
			entry.Author = resolveAuthor(line)
		case 2:
			entry.Date = strings.TrimSpace(strings.ReplaceAll(line, dateLabel, ""))
		case 3:
			entry.Comment = strings.TrimSpace(line)
		}
	}

	return entry
}

// resolveAuthor strips the label and the <email> part. Lines without an
// email (or a Merge: line in that slot) come back unchanged.
func resolveAuthor(line string) string {
	idx := strings.Index(line, "<")
	if idx < 0 {
		logger.Named("parser").WithField("line", line).Warn("author line has no email, keeping it as is")
		return line
	}
	return strings.TrimSpace(strings.ReplaceAll(line[:idx], authorLabel, ""))
}

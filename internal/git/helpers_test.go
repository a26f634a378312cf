package git

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"

	"github.com/Johannes-Berggren/GitHistory/internal/logger"
)

func TestMain(m *testing.M) {
	logger.SetOutput(io.Discard)
	os.Exit(m.Run())
}

type testCommit struct {
	file    string
	content string
	message string
}

// newTestRepo creates a repository with one commit per entry, a day
// apart, and returns its directory and the commit hashes in order.
func newTestRepo(t *testing.T, commits []testCommit) (string, []string) {
	t.Helper()

	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	wt, err := repo.Worktree()
	require.NoError(t, err)

	base := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	hashes := make([]string, 0, len(commits))

	for i, c := range commits {
		full := filepath.Join(dir, filepath.FromSlash(c.file))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(c.content), 0o644))

		_, err := wt.Add(c.file)
		require.NoError(t, err)

		hash, err := wt.Commit(c.message, &gogit.CommitOptions{
			Author: &object.Signature{
				Name:  "Jane Doe",
				Email: "jane@example.com",
				When:  base.Add(time.Duration(i) * 24 * time.Hour),
			},
		})
		require.NoError(t, err)
		hashes = append(hashes, hash.String())
	}

	return dir, hashes
}

var sampleHistory = []testCommit{
	{file: "a.txt", content: "one", message: "Add a"},
	{file: "b.txt", content: "two", message: "Add b"},
	{file: "a.txt", content: "one more", message: "Update a\n\nWith a longer body.\n"},
	{file: "sub/c.txt", content: "three", message: "Add sub"},
}

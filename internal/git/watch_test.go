package git

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShouldIgnoreEvent(t *testing.T) {
	tests := []struct {
		name   string
		event  fsnotify.Event
		ignore bool
	}{
		{"ref write", fsnotify.Event{Name: "/r/.git/refs/heads/main", Op: fsnotify.Write}, false},
		{"head create", fsnotify.Event{Name: "/r/.git/HEAD", Op: fsnotify.Create}, false},
		{"lock file", fsnotify.Event{Name: "/r/.git/refs/heads/main.lock", Op: fsnotify.Create}, true},
		{"index", fsnotify.Event{Name: "/r/.git/index", Op: fsnotify.Write}, true},
		{"chmod", fsnotify.Event{Name: "/r/.git/HEAD", Op: fsnotify.Chmod}, true},
		{"remove", fsnotify.Event{Name: "/r/.git/ORIG_HEAD", Op: fsnotify.Remove}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.ignore, shouldIgnoreEvent(tt.event))
		})
	}
}

func TestFindGitDir(t *testing.T) {
	dir, _ := newTestRepo(t, sampleHistory)

	got, err := findGitDir(filepath.Join(dir, "sub"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ".git"), got)
}

func TestWatchRepository_ReportsRefChange(t *testing.T) {
	dir, hashes := newTestRepo(t, sampleHistory)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w, err := WatchRepository(ctx, dir)
	require.NoError(t, err)
	defer w.Close()

	ref := filepath.Join(dir, ".git", "refs", "heads", "feature")
	require.NoError(t, os.WriteFile(ref, []byte(hashes[0]+"\n"), 0o644))

	select {
	case <-w.Changes():
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestWatchDirs(t *testing.T) {
	dir, _ := newTestRepo(t, sampleHistory)
	gitDir := filepath.Join(dir, ".git")
	require.NoError(t, os.MkdirAll(filepath.Join(gitDir, "refs", "heads", "feature", "deep"), 0o755))

	dirs := watchDirs(gitDir)
	assert.Contains(t, dirs, gitDir)
	assert.Contains(t, dirs, filepath.Join(gitDir, "refs", "heads"))
	assert.Contains(t, dirs, filepath.Join(gitDir, "refs", "heads", "feature"))
	assert.Contains(t, dirs, filepath.Join(gitDir, "refs", "heads", "feature", "deep"))
}

func TestWatchRepository_ReportsNestedRefChange(t *testing.T) {
	dir, hashes := newTestRepo(t, sampleHistory)
	nested := filepath.Join(dir, ".git", "refs", "heads", "feature")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w, err := WatchRepository(ctx, dir)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(nested, "x"), []byte(hashes[1]+"\n"), 0o644))

	select {
	case <-w.Changes():
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported for refs/heads/feature/x")
	}
}

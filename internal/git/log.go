package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Johannes-Berggren/GitHistory/internal/logger"
)

var (
	ErrEmptyPath      = errors.New("path is empty")
	ErrPathNotFound   = errors.New("path does not exist")
	ErrGitUnavailable = errors.New("git executable not found")
)

// Fetcher produces raw `git log` text for a path.
type Fetcher interface {
	// FetchLog returns at most count records (all when count <= 0),
	// newest first. An empty string means there is no history to show.
	FetchLog(ctx context.Context, path string, count int) (string, error)
	// Branch returns the checked out branch of the repository holding path.
	Branch(ctx context.Context, path string) (string, error)
}

// CLIFetcher runs the git executable.
type CLIFetcher struct {
	Binary string
}

// NewCLIFetcher returns a fetcher for the given git binary ("git" when empty).
func NewCLIFetcher(binary string) *CLIFetcher {
	if binary == "" {
		binary = "git"
	}
	return &CLIFetcher{Binary: binary}
}

// FetchLog runs `git log --date=short` against path from the path's directory.
// stderr is logged as a warning. A failed run is only an error when it
// also produced no stdout.
func (f *CLIFetcher) FetchLog(ctx context.Context, path string, count int) (string, error) {
	target, dir, err := resolveTarget(path)
	if err != nil {
		return "", err
	}

	bin, err := f.lookPath()
	if err != nil {
		return "", err
	}

	log := logger.Named("git").WithField("path", target)
	log.WithField("count", count).Info("running git log")

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, logArgs(target, count)...)
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	runErr := cmd.Run()

	if msg := strings.TrimSpace(stderr.String()); msg != "" {
		log.Warnf("git log: %s", msg)
	}

	if runErr != nil && strings.TrimSpace(stdout.String()) == "" {
		return "", fmt.Errorf("failed to run git log: %w: %s", runErr, strings.TrimSpace(stderr.String()))
	}

	return stdout.String(), nil
}

// Branch returns the current branch name, or "HEAD" when detached.
func (f *CLIFetcher) Branch(ctx context.Context, path string) (string, error) {
	_, dir, err := resolveTarget(path)
	if err != nil {
		return "", err
	}

	cmd := exec.CommandContext(ctx, f.Binary, "branch", "--show-current")
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to get current branch: %w", err)
	}

	branch := strings.TrimSpace(string(output))
	if branch == "" {
		return "HEAD", nil
	}
	return branch, nil
}

// Available reports ErrGitUnavailable when the binary cannot be found.
func (f *CLIFetcher) Available() error {
	_, err := f.lookPath()
	return err
}

func (f *CLIFetcher) lookPath() (string, error) {
	bin, err := exec.LookPath(f.Binary)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrGitUnavailable, f.Binary)
	}
	return bin, nil
}

// CheckTarget returns ErrEmptyPath or ErrPathNotFound for a path no
// backend can read history for.
func CheckTarget(path string) error {
	_, _, err := resolveTarget(path)
	return err
}

func logArgs(target string, count int) []string {
	args := []string{
		"log",
		"--no-color",
		"--no-decorate",
		"--date=short",
	}

	if count > 0 {
		args = append(args, "-n", strconv.Itoa(count))
	}

	return append(args, "--", target)
}

// resolveTarget returns the absolute path and the directory git should run in.
func resolveTarget(path string) (string, string, error) {
	if strings.TrimSpace(path) == "" {
		return "", "", ErrEmptyPath
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", "", fmt.Errorf("%w: %s", ErrPathNotFound, path)
		}
		return "", "", fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if info.IsDir() {
		return abs, abs, nil
	}
	return abs, filepath.Dir(abs), nil
}

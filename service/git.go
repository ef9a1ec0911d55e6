package service

import (
	"context"
	"fmt"
	"os/exec"
	"sort"
	"strings"

	"github.com/ludo-technologies/tsgate/domain"
	"golang.org/x/sync/errgroup"
)

// GitChangeLister implements domain.ChangeLister by shelling out to git.
type GitChangeLister struct{}

// NewGitChangeLister creates a new git-backed change lister
func NewGitChangeLister() *GitChangeLister {
	return &GitChangeLister{}
}

// ChangedFiles returns tracked changes plus untracked files, relative to
// root, deduplicated and sorted. The two listings are independent and
// run concurrently.
func (g *GitChangeLister) ChangedFiles(ctx context.Context, root string) ([]string, error) {
	var tracked, untracked []string

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		tracked, err = gitLines(ctx, root, "diff", "--name-only", "HEAD")
		return err
	})
	eg.Go(func() error {
		var err error
		untracked, err = gitLines(ctx, root, "ls-files", "--others", "--exclude-standard")
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, domain.NewAnalysisError("failed to list changed files", err)
	}

	seen := make(map[string]bool, len(tracked)+len(untracked))
	var files []string
	for _, f := range append(tracked, untracked...) {
		if !seen[f] {
			seen[f] = true
			files = append(files, f)
		}
	}
	sort.Strings(files)
	return files, nil
}

func gitLines(ctx context.Context, root string, args ...string) ([]string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = root
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}

	var lines []string
	for _, line := range strings.Split(string(out), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines, nil
}

package gitinfo

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

func initRepo(t *testing.T) (string, *git.Repository) {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("init repo: %v", err)
	}
	return dir, repo
}

func commitFile(t *testing.T, dir string, repo *git.Repository, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	if _, err := wt.Add(name); err != nil {
		t.Fatalf("add: %v", err)
	}
	sig := &object.Signature{Name: "seshat", Email: "seshat@flarebyte.com", When: time.Now()}
	if _, err := wt.Commit("add "+name, &git.CommitOptions{Author: sig}); err != nil {
		t.Fatalf("commit: %v", err)
	}
}

func TestDescribeNoRepo(t *testing.T) {
	_, err := Describe(t.TempDir())
	if !errors.Is(err, ErrRepoNotFound) {
		t.Fatalf("want ErrRepoNotFound, got %v", err)
	}
}

func TestDescribeCleanRepo(t *testing.T) {
	dir, repo := initRepo(t)
	commitFile(t, dir, repo, "README.md", "tally\n")

	info, err := Describe(dir)
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	if !info.Clean {
		t.Fatalf("expected clean worktree: %+v", info)
	}
	if len(info.Commit) != 7 {
		t.Fatalf("expected abbreviated commit hash, got %q", info.Commit)
	}
}

func TestDescribeDirtyRepo(t *testing.T) {
	dir, repo := initRepo(t)
	commitFile(t, dir, repo, "README.md", "tally\n")
	if err := os.WriteFile(filepath.Join(dir, "untracked.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	info, err := Describe(dir)
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	if info.Clean {
		t.Fatalf("expected dirty worktree: %+v", info)
	}
}

func TestDescribeFromSubdirectory(t *testing.T) {
	dir, repo := initRepo(t)
	commitFile(t, dir, repo, "README.md", "tally\n")
	sub := filepath.Join(dir, "internal", "deep")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	info, err := Describe(sub)
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	if info.Commit == "" {
		t.Fatalf("expected commit hash from parent repo")
	}
}

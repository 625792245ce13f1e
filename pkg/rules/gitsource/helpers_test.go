package gitsource

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"ingredient-scout/scout/pkg/config"
	"ingredient-scout/scout/pkg/conflict"
	"ingredient-scout/scout/pkg/rules"
)

// go-git init creates "master" by default.
const testBranch = "master"

func catalogYAML(t *testing.T, version string) string {
	t.Helper()
	cat := conflict.DefaultCatalog()
	cat.Version = version
	data, err := rules.Marshal(cat)
	if err != nil {
		t.Fatalf("failed to marshal catalog: %v", err)
	}
	return string(data)
}

// sourceRepo is an upstream repository the tests commit to.
type sourceRepo struct {
	t    *testing.T
	dir  string
	repo *gogit.Repository
}

func newSourceRepo(t *testing.T) *sourceRepo {
	t.Helper()

	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("failed to init repo: %v", err)
	}

	s := &sourceRepo{t: t, dir: dir, repo: repo}
	s.commit("initial catalog", map[string]string{"rules.yaml": catalogYAML(t, "1")})
	return s
}

// commit writes files and commits them, returning the new SHA.
func (s *sourceRepo) commit(msg string, files map[string]string) string {
	s.t.Helper()

	worktree, err := s.repo.Worktree()
	if err != nil {
		s.t.Fatalf("failed to get worktree: %v", err)
	}

	for name, content := range files {
		full := filepath.Join(s.dir, name)
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			s.t.Fatalf("failed to create dir: %v", err)
		}
		if err := os.WriteFile(full, []byte(content), 0644); err != nil {
			s.t.Fatalf("failed to write %s: %v", name, err)
		}
		if _, err := worktree.Add(name); err != nil {
			s.t.Fatalf("failed to add %s: %v", name, err)
		}
	}

	hash, err := worktree.Commit(msg, &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  "Test User",
			Email: "test@example.com",
			When:  time.Now(),
		},
	})
	if err != nil {
		s.t.Fatalf("failed to commit: %v", err)
	}
	return hash.String()
}

func (s *sourceRepo) config(t *testing.T) config.GitConfig {
	return config.GitConfig{
		Enabled:    true,
		Repository: s.dir,
		Branch:     testBranch,
		Path:       "rules.yaml",
		LocalPath:  t.TempDir(),
		Auth:       config.GitAuthConfig{Type: AuthNone},
		Poll:       config.GitPollConfig{Interval: time.Second, Timeout: 10 * time.Second},
	}
}

func clonedRepository(t *testing.T, src *sourceRepo) *Repository {
	t.Helper()

	r, err := NewRepository(src.config(t))
	if err != nil {
		t.Fatalf("NewRepository() error = %v", err)
	}
	if err := r.Clone(t.Context()); err != nil {
		t.Fatalf("Clone() error = %v", err)
	}
	return r
}

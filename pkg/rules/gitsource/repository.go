package gitsource

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"ingredient-scout/scout/pkg/config"
)

// DefaultTimeout bounds a clone or pull when engine.git.poll.timeout is unset.
const DefaultTimeout = 30 * time.Second

// ErrNotCloned is returned by operations that need a local clone.
var ErrNotCloned = errors.New("repository not initialized, call Clone() first")

// CommitInfo describes a commit of the tracked branch.
type CommitInfo struct {
	SHA       string    `json:"sha"`
	Author    string    `json:"author"`
	Email     string    `json:"email"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
	Branch    string    `json:"branch"`
}

// PullResult describes the commit range a pull moved HEAD across.
type PullResult struct {
	FromSHA      string
	ToSHA        string
	ChangedFiles []string
	HadChanges   bool
}

// Stats are cumulative repository counters.
type Stats struct {
	CloneDuration   time.Duration
	PullDuration    time.Duration
	LastCommitSHA   string
	LastPullTime    time.Time
	SuccessfulPulls int64
	FailedPulls     int64
	Rollbacks       int64
}

// Repository is a local clone of the branch holding the rules file. It is
// safe for concurrent use. Calls that read through the go-git repository
// take the write lock: go-git caches packfile indexes without
// synchronization.
type Repository struct {
	cfg       config.GitConfig
	localPath string
	auth      AuthProvider

	mu    sync.RWMutex
	repo  *gogit.Repository
	stats Stats
}

// NewRepository validates cfg and prepares a repository. Nothing touches the
// network until Clone.
func NewRepository(cfg config.GitConfig) (*Repository, error) {
	if cfg.Repository == "" {
		return nil, errors.New("repository URL cannot be empty")
	}
	if cfg.Branch == "" {
		return nil, errors.New("branch cannot be empty")
	}
	if cfg.Path == "" {
		return nil, errors.New("rules path cannot be empty")
	}

	auth, err := NewAuthProvider(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth provider: %w", err)
	}

	localPath := cfg.LocalPath
	if localPath == "" {
		localPath = filepath.Join(os.TempDir(), "ingredient-scout-rules")
	}
	if cfg.Poll.Timeout <= 0 {
		cfg.Poll.Timeout = DefaultTimeout
	}

	return &Repository{
		cfg:       cfg,
		localPath: localPath,
		auth:      auth,
	}, nil
}

// Clone makes the local clone available. An existing clone at the local path
// is reopened unless CleanOnStart is set, in which case it is removed first.
func (r *Repository) Clone(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()
	defer func() {
		r.stats.CloneDuration = time.Since(start)
	}()

	if r.cfg.CleanOnStart {
		if err := os.RemoveAll(r.localPath); err != nil {
			return fmt.Errorf("failed to clean existing repository: %w", err)
		}
	}

	if _, err := os.Stat(filepath.Join(r.localPath, ".git")); err == nil {
		repo, err := gogit.PlainOpen(r.localPath)
		if err != nil {
			return fmt.Errorf("failed to open existing repo: %w", err)
		}
		r.repo = repo
		return nil
	}

	if err := os.MkdirAll(r.localPath, 0755); err != nil {
		return fmt.Errorf("failed to create repository directory: %w", err)
	}

	auth, err := r.auth.Method()
	if err != nil {
		return fmt.Errorf("failed to get auth: %w", err)
	}

	cloneCtx, cancel := context.WithTimeout(ctx, r.cfg.Poll.Timeout)
	defer cancel()

	repo, err := gogit.PlainCloneContext(cloneCtx, r.localPath, false, &gogit.CloneOptions{
		URL:           r.cfg.Repository,
		Auth:          auth,
		ReferenceName: plumbing.NewBranchReferenceName(r.cfg.Branch),
		SingleBranch:  true,
		Depth:         r.cfg.Depth,
	})
	if err != nil {
		return fmt.Errorf("failed to clone repository: %w", err)
	}

	r.repo = repo
	return nil
}

// Pull fast-forwards the clone to the remote branch head and reports which
// files changed. It never force-updates.
func (r *Repository) Pull(ctx context.Context) (*PullResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()
	defer func() {
		r.stats.PullDuration = time.Since(start)
		r.stats.LastPullTime = time.Now()
	}()

	if r.repo == nil {
		return nil, ErrNotCloned
	}

	head, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD: %w", err)
	}
	fromSHA := head.Hash().String()

	worktree, err := r.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree: %w", err)
	}

	auth, err := r.auth.Method()
	if err != nil {
		return nil, fmt.Errorf("failed to get auth: %w", err)
	}

	pullCtx, cancel := context.WithTimeout(ctx, r.cfg.Poll.Timeout)
	defer cancel()

	err = worktree.PullContext(pullCtx, &gogit.PullOptions{
		RemoteName:    "origin",
		ReferenceName: plumbing.NewBranchReferenceName(r.cfg.Branch),
		SingleBranch:  true,
		Auth:          auth,
	})
	if err != nil && !errors.Is(err, gogit.NoErrAlreadyUpToDate) {
		r.stats.FailedPulls++
		return nil, fmt.Errorf("failed to pull: %w", err)
	}
	r.stats.SuccessfulPulls++

	head, err = r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get new HEAD: %w", err)
	}
	toSHA := head.Hash().String()

	result := &PullResult{
		FromSHA:    fromSHA,
		ToSHA:      toSHA,
		HadChanges: fromSHA != toSHA,
	}
	if result.HadChanges {
		files, err := r.changedFiles(fromSHA, toSHA)
		if err != nil {
			return nil, fmt.Errorf("failed to get changed files: %w", err)
		}
		result.ChangedFiles = files
		r.stats.LastCommitSHA = toSHA
	}

	return result, nil
}

// changedFiles lists paths that differ between two commits. The caller holds
// r.mu.
func (r *Repository) changedFiles(fromSHA, toSHA string) ([]string, error) {
	fromCommit, err := r.repo.CommitObject(plumbing.NewHash(fromSHA))
	if err != nil {
		return nil, fmt.Errorf("failed to get from commit: %w", err)
	}
	toCommit, err := r.repo.CommitObject(plumbing.NewHash(toSHA))
	if err != nil {
		return nil, fmt.Errorf("failed to get to commit: %w", err)
	}

	fromTree, err := fromCommit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to get from tree: %w", err)
	}
	toTree, err := toCommit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to get to tree: %w", err)
	}

	changes, err := fromTree.Diff(toTree)
	if err != nil {
		return nil, fmt.Errorf("failed to diff trees: %w", err)
	}

	files := make([]string, 0, len(changes))
	for _, change := range changes {
		// Deleted files only have a From side.
		if change.To.Name != "" {
			files = append(files, change.To.Name)
		} else if change.From.Name != "" {
			files = append(files, change.From.Name)
		}
	}
	return files, nil
}

// CurrentCommit describes the checked-out commit.
func (r *Repository) CurrentCommit() (*CommitInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.repo == nil {
		return nil, ErrNotCloned
	}

	head, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD: %w", err)
	}
	commit, err := r.repo.CommitObject(head.Hash())
	if err != nil {
		return nil, fmt.Errorf("failed to get commit: %w", err)
	}

	return &CommitInfo{
		SHA:       commit.Hash.String(),
		Author:    commit.Author.Name,
		Email:     commit.Author.Email,
		Timestamp: commit.Author.When,
		Message:   commit.Message,
		Branch:    r.cfg.Branch,
	}, nil
}

// Rollback checks out targetSHA, discarding the working tree. HEAD is left
// detached at the target; the next Pull fast-forwards it again.
func (r *Repository) Rollback(ctx context.Context, targetSHA string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.repo == nil {
		return ErrNotCloned
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	hash := plumbing.NewHash(targetSHA)
	if _, err := r.repo.CommitObject(hash); err != nil {
		return fmt.Errorf("target commit not found: %w", err)
	}

	worktree, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}
	if err := worktree.Checkout(&gogit.CheckoutOptions{Hash: hash, Force: true}); err != nil {
		return fmt.Errorf("failed to checkout commit %s: %w", targetSHA, err)
	}

	r.stats.Rollbacks++
	return nil
}

// RulesPath returns the filesystem path of the rules file inside the clone.
func (r *Repository) RulesPath() string {
	return filepath.Join(r.localPath, filepath.FromSlash(r.cfg.Path))
}

// RelativeRulesPath returns the rules file path as Git reports it.
func (r *Repository) RelativeRulesPath() string {
	return filepath.ToSlash(filepath.Clean(r.cfg.Path))
}

// LocalPath returns the clone directory.
func (r *Repository) LocalPath() string {
	return r.localPath
}

// Stats returns a snapshot of the repository counters.
func (r *Repository) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.stats
}

// Package publisher persists sync artifacts by committing them to the
// backing git repository and pushing upstream.
package publisher

import (
	"context"
	"errors"
	"fmt"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"

	"github.com/pocket-lens/core/internal/config"
	"github.com/pocket-lens/core/pkg/logger"
)

// ErrNothingToCommit reports a clean worktree. Callers treat it as
// success: an unchanged cache simply produces no commit.
var ErrNothingToCommit = errors.New("nothing to commit")

// Publisher stages the artifact directories, commits, and pushes.
type Publisher struct {
	cfg    config.GitConfig
	logger *logger.Logger
}

func New(cfg config.GitConfig) *Publisher {
	return &Publisher{
		cfg:    cfg,
		logger: logger.New("publisher"),
	}
}

// Publish stages paths and commits them with message. A clean worktree
// is not an error: the returned hash is empty and nothing is pushed.
// Returns the commit hash when a commit was created.
func (p *Publisher) Publish(ctx context.Context, paths []string, message string) (string, error) {
	repo, err := git.PlainOpen(p.cfg.RepoPath)
	if err != nil {
		return "", fmt.Errorf("failed to open repository %s: %w", p.cfg.RepoPath, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("failed to get worktree: %w", err)
	}

	for _, path := range paths {
		if err := worktree.AddWithOptions(&git.AddOptions{Path: path}); err != nil {
			// Paths the scraper never produced are fine to skip.
			p.logger.LogGitOperation("add", path, err)
			continue
		}
		p.logger.LogGitOperation("add", path, nil)
	}

	hash, err := p.commit(worktree, message)
	if errors.Is(err, ErrNothingToCommit) {
		p.logger.Info().
			Str("action", "publish_noop").
			Msg("No changes to commit, treating as success")
		return "", nil
	}
	if err != nil {
		return "", err
	}

	p.logger.LogGitOperation("commit", hash, nil)

	if p.cfg.PushEnabled {
		if err := p.push(ctx, repo); err != nil {
			return hash, err
		}
	}

	return hash, nil
}

func (p *Publisher) commit(worktree *git.Worktree, message string) (string, error) {
	status, err := worktree.Status()
	if err != nil {
		return "", fmt.Errorf("failed to get worktree status: %w", err)
	}

	staged := 0
	for _, fileStatus := range status {
		if fileStatus.Staging != git.Untracked && fileStatus.Staging != git.Unmodified {
			staged++
		}
	}
	if staged == 0 {
		return "", ErrNothingToCommit
	}

	signature := &object.Signature{
		Name:  p.cfg.AuthorName,
		Email: p.cfg.AuthorEmail,
		When:  time.Now(),
	}

	hash, err := worktree.Commit(message, &git.CommitOptions{
		Author:    signature,
		Committer: signature,
	})
	if err != nil {
		if errors.Is(err, git.ErrEmptyCommit) {
			return "", ErrNothingToCommit
		}
		return "", fmt.Errorf("failed to commit: %w", err)
	}

	return hash.String(), nil
}

func (p *Publisher) push(ctx context.Context, repo *git.Repository) error {
	opts := &git.PushOptions{
		RemoteName: p.cfg.Remote,
	}
	if p.cfg.Token != "" {
		opts.Auth = &githttp.BasicAuth{
			Username: "x-access-token",
			Password: p.cfg.Token,
		}
	}

	err := repo.PushContext(ctx, opts)
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		p.logger.LogGitOperation("push", "already up to date", nil)
		return nil
	}
	if err != nil {
		p.logger.LogGitOperation("push", p.cfg.Remote, err)
		return fmt.Errorf("failed to push to %s: %w", p.cfg.Remote, err)
	}

	p.logger.LogGitOperation("push", p.cfg.Remote, nil)
	return nil
}

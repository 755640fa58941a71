package publisher

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	git "github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pocket-lens/core/internal/config"
)

func newTestRepo(t *testing.T) (string, *git.Repository) {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	return dir, repo
}

func newTestPublisher(repoPath string) *Publisher {
	return New(config.GitConfig{
		RepoPath:    repoPath,
		Remote:      "origin",
		AuthorName:  "test-bot",
		AuthorEmail: "bot@test.dev",
		PushEnabled: false,
	})
}

func writeArtifact(t *testing.T, repoPath, relPath, content string) {
	t.Helper()
	path := filepath.Join(repoPath, relPath)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestPublishCommitsChanges(t *testing.T) {
	repoPath, repo := newTestRepo(t)
	pub := newTestPublisher(repoPath)

	writeArtifact(t, repoPath, "tournament_cache/0123456789abcdef01234567.json", `{"tournament_id":"0123456789abcdef01234567"}`)

	hash, err := pub.Publish(context.Background(), []string{"tournament_cache"}, "Update tournament cache: 1 new")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	head, err := repo.Head()
	require.NoError(t, err)
	assert.Equal(t, hash, head.Hash().String())

	commit, err := repo.CommitObject(head.Hash())
	require.NoError(t, err)
	assert.Equal(t, "Update tournament cache: 1 new", commit.Message)
	assert.Equal(t, "test-bot", commit.Author.Name)
}

func TestPublishNothingToCommit(t *testing.T) {
	repoPath, repo := newTestRepo(t)
	pub := newTestPublisher(repoPath)

	writeArtifact(t, repoPath, "tournament_cache/index.json", `{"tournaments":[]}`)

	first, err := pub.Publish(context.Background(), []string{"tournament_cache"}, "initial")
	require.NoError(t, err)
	require.NotEmpty(t, first)

	// Identical artifacts on the second run: success, no new commit
	second, err := pub.Publish(context.Background(), []string{"tournament_cache"}, "noop")
	require.NoError(t, err)
	assert.Empty(t, second)

	head, err := repo.Head()
	require.NoError(t, err)
	assert.Equal(t, first, head.Hash().String())
}

func TestPublishCommitsOnlyTrackedPaths(t *testing.T) {
	repoPath, repo := newTestRepo(t)
	pub := newTestPublisher(repoPath)

	writeArtifact(t, repoPath, "tournament_cache/index.json", `{"tournaments":[]}`)
	writeArtifact(t, repoPath, "scratch/notes.txt", "untracked")

	hash, err := pub.Publish(context.Background(), []string{"tournament_cache"}, "Update tournament cache")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	head, err := repo.Head()
	require.NoError(t, err)
	commit, err := repo.CommitObject(head.Hash())
	require.NoError(t, err)

	tree, err := commit.Tree()
	require.NoError(t, err)

	_, err = tree.File("tournament_cache/index.json")
	assert.NoError(t, err)
	_, err = tree.File("scratch/notes.txt")
	assert.Error(t, err)
}

func TestPublishMissingRepo(t *testing.T) {
	pub := newTestPublisher(filepath.Join(t.TempDir(), "not-a-repo"))

	_, err := pub.Publish(context.Background(), []string{"tournament_cache"}, "msg")
	require.Error(t, err)
}

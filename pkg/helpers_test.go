package nextver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// baseTime anchors fixture commit times so tag boundaries are deterministic.
var baseTime = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

// testRepo is a git repository in a temporary directory.
type testRepo struct {
	t    *testing.T
	dir  string
	repo *git.Repository
	// clock is the time of the next commit; each commit advances it by an hour.
	clock time.Time
	seq   int
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	return &testRepo{t: t, dir: dir, repo: repo, clock: baseTime}
}

func (r *testRepo) signature() *object.Signature {
	return &object.Signature{Name: "Test User", Email: "test@example.com", When: r.clock}
}

// writeFile writes content to a path relative to the repository root.
func (r *testRepo) writeFile(name, content string) string {
	r.t.Helper()

	path := filepath.Join(r.dir, name)
	require.NoError(r.t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(r.t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// commit rewrites CHANGELOG so the tree changes, then commits it with msg.
func (r *testRepo) commit(msg string) plumbing.Hash {
	r.t.Helper()

	r.seq++
	r.writeFile("CHANGELOG", fmt.Sprintf("%d %s\n", r.seq, msg))
	return r.commitFiles(msg, "CHANGELOG")
}

// commitFiles stages the given repository-relative files and commits them.
func (r *testRepo) commitFiles(msg string, files ...string) plumbing.Hash {
	r.t.Helper()

	wt, err := r.repo.Worktree()
	require.NoError(r.t, err)
	for _, f := range files {
		_, err := wt.Add(f)
		require.NoError(r.t, err)
	}
	hash, err := wt.Commit(msg, &git.CommitOptions{Author: r.signature()})
	require.NoError(r.t, err)

	r.clock = r.clock.Add(time.Hour)
	return hash
}

func (r *testRepo) tag(name string, hash plumbing.Hash) {
	r.t.Helper()

	_, err := r.repo.CreateTag(name, hash, nil)
	require.NoError(r.t, err)
}

func (r *testRepo) annotatedTag(name string, hash plumbing.Hash) {
	r.t.Helper()

	_, err := r.repo.CreateTag(name, hash, &git.CreateTagOptions{
		Tagger:  r.signature(),
		Message: "release " + name,
	})
	require.NoError(r.t, err)
}

func (r *testRepo) history() *GitHistory {
	return NewGitHistory(r.repo, "v")
}

// fakeHistory serves canned history to Plan.
type fakeHistory struct {
	tag      *ReleaseTag
	messages []string
	since    *time.Time
	err      error
}

func (f *fakeHistory) LastReleaseTag(context.Context) (*ReleaseTag, error) {
	return f.tag, f.err
}

func (f *fakeHistory) MessagesSince(_ context.Context, since *time.Time) ([]string, error) {
	f.since = since
	return f.messages, nil
}

// memoryManifest is an in-memory ManifestStore.
type memoryManifest struct {
	version string
	writes  int
}

func (m *memoryManifest) ReadVersion() (string, error) {
	return m.version, nil
}

func (m *memoryManifest) WriteVersion(v string) error {
	m.version = v
	m.writes++
	return nil
}

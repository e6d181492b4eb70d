package scanner

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/gobwas/glob"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pathsource/internal/filesystem"
)

// setupTestDirectory creates a directory structure for scan tests.
// Structure:
//
//	tmpDir/
//	  file1.txt
//	  file2.txt
//	  .hidden
//	  sub/
//	    inside.txt
func setupTestDirectory(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()

	structure := []string{
		"file1.txt",
		"file2.txt",
		".hidden",
		"sub/inside.txt",
	}
	for _, f := range structure {
		path := filepath.Join(tmpDir, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("test"), 0644))
	}
	return tmpDir
}

func names(candidates []Candidate) []string {
	return lo.Map(candidates, func(c Candidate, _ int) string { return c.Name })
}

func TestScan_ListsEntries(t *testing.T) {
	tmpDir := setupTestDirectory(t)
	s := NewScanner(Config{})

	res := <-s.Scan(context.Background(), Request{Dirname: tmpDir})
	require.NoError(t, res.Err)

	got := names(res.Candidates)
	assert.ElementsMatch(t, []string{"file1.txt", "file2.txt", "sub"}, got)
}

func TestScan_HiddenFilePolicy(t *testing.T) {
	tmpDir := setupTestDirectory(t)
	s := NewScanner(Config{})

	res := <-s.Scan(context.Background(), Request{Dirname: tmpDir})
	require.NoError(t, res.Err)
	assert.NotContains(t, names(res.Candidates), ".hidden")

	res = <-s.Scan(context.Background(), Request{Dirname: tmpDir, IncludeHidden: true})
	require.NoError(t, res.Err)
	assert.Contains(t, names(res.Candidates), ".hidden")
}

func TestScan_DirectoryCandidateText(t *testing.T) {
	tmpDir := setupTestDirectory(t)
	s := NewScanner(Config{})
	sep := string(filepath.Separator)

	res := <-s.Scan(context.Background(), Request{
		Dirname:            tmpDir,
		TrailingSlash:      true,
		LabelTrailingSlash: true,
	})
	require.NoError(t, res.Err)

	sub, found := lo.Find(res.Candidates, func(c Candidate) bool { return c.Name == "sub" })
	require.True(t, found)
	assert.Equal(t, KindDirectory, sub.Kind)
	assert.Equal(t, "sub"+sep, sub.DisplayLabel)
	assert.Equal(t, "sub"+sep, sub.InsertText)
	assert.Equal(t, "sub"+sep, sub.Word)
	assert.Equal(t, filepath.Join(tmpDir, "sub"), sub.AbsolutePath)
	require.NotNil(t, sub.Stat)
	assert.True(t, sub.Stat.Mode.IsDir())

	// Insert text keeps the separator even when the filter word drops it.
	res = <-s.Scan(context.Background(), Request{Dirname: tmpDir})
	require.NoError(t, res.Err)
	sub, found = lo.Find(res.Candidates, func(c Candidate) bool { return c.Name == "sub" })
	require.True(t, found)
	assert.Equal(t, "sub", sub.DisplayLabel)
	assert.Equal(t, "sub"+sep, sub.InsertText)
	assert.Equal(t, "sub", sub.Word)
}

func TestScan_FileCandidate(t *testing.T) {
	tmpDir := setupTestDirectory(t)
	s := NewScanner(Config{})

	res := <-s.Scan(context.Background(), Request{Dirname: tmpDir, TrailingSlash: true})
	require.NoError(t, res.Err)

	file, found := lo.Find(res.Candidates, func(c Candidate) bool { return c.Name == "file1.txt" })
	require.True(t, found)
	assert.Equal(t, KindFile, file.Kind)
	assert.Equal(t, "file1.txt", file.DisplayLabel)
	assert.Equal(t, "file1.txt", file.InsertText)
	require.NotNil(t, file.Stat)
	assert.Equal(t, int64(4), file.Stat.Size)
}

func TestScan_MissingDirectory(t *testing.T) {
	s := NewScanner(Config{})

	res := <-s.Scan(context.Background(), Request{Dirname: "/does/not/exist"})
	assert.Error(t, res.Err)
	assert.Empty(t, res.Candidates)
}

func TestScan_IgnorePatterns(t *testing.T) {
	tmpDir := setupTestDirectory(t)
	s := NewScanner(Config{})

	res := <-s.Scan(context.Background(), Request{
		Dirname:        tmpDir,
		IgnorePatterns: []glob.Glob{glob.MustCompile("*.txt")},
	})
	require.NoError(t, res.Err)
	assert.ElementsMatch(t, []string{"sub"}, names(res.Candidates))
}

func TestScan_BrokenSymlinkKeptWithoutStat(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation requires privileges on windows")
	}
	tmpDir := setupTestDirectory(t)
	require.NoError(t, os.Symlink(filepath.Join(tmpDir, "gone"), filepath.Join(tmpDir, "dangling")))

	s := NewScanner(Config{})
	res := <-s.Scan(context.Background(), Request{Dirname: tmpDir})
	require.NoError(t, res.Err)

	link, found := lo.Find(res.Candidates, func(c Candidate) bool { return c.Name == "dangling" })
	require.True(t, found, "a dangling link whose lstat succeeds is still completable")
	assert.Equal(t, KindFile, link.Kind)
	assert.Nil(t, link.Stat)
}

// lstatFailFS simulates a link vanishing between the directory listing and
// the stat calls.
type lstatFailFS struct {
	filesystem.FileSystem
	name string
}

func (f lstatFailFS) Lstat(name string) (fs.FileInfo, error) {
	if filepath.Base(name) == f.name {
		return nil, errors.New("no such file or directory")
	}
	return f.FileSystem.Lstat(name)
}

func TestScan_VanishedSymlinkSilentlyOmitted(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation requires privileges on windows")
	}
	tmpDir := setupTestDirectory(t)
	require.NoError(t, os.Symlink(filepath.Join(tmpDir, "gone"), filepath.Join(tmpDir, "dangling")))

	s := NewScanner(Config{FileSystem: lstatFailFS{filesystem.DefaultFileSystem{}, "dangling"}})
	res := <-s.Scan(context.Background(), Request{Dirname: tmpDir})
	require.NoError(t, res.Err, "a broken link is omitted, not reported")
	assert.NotContains(t, names(res.Candidates), "dangling")
}

func TestScan_CanceledContext(t *testing.T) {
	tmpDir := setupTestDirectory(t)
	s := NewScanner(Config{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := <-s.Scan(ctx, Request{Dirname: tmpDir})
	assert.ErrorIs(t, res.Err, context.Canceled)
}

func TestScan_DeliversExactlyOnceAndCloses(t *testing.T) {
	tmpDir := setupTestDirectory(t)
	s := NewScanner(Config{})

	ch := s.Scan(context.Background(), Request{Dirname: tmpDir})
	_, ok := <-ch
	require.True(t, ok)
	_, ok = <-ch
	assert.False(t, ok, "channel must be closed after the single delivery")
}

package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	return NewResolver(Config{
		HomeDir: func() (string, error) { return "/home/u", nil },
		LookupEnv: func(name string) (string, bool) {
			env := map[string]string{
				"HOME":          "/home/u",
				"XDG_DATA_HOME": "/home/u/.local/share",
			}
			v, ok := env[name]
			return v, ok
		},
	})
}

func TestResolve_RelativePaths(t *testing.T) {
	r := newTestResolver(t)

	tests := []struct {
		name     string
		line     string
		cwd      string
		expected string
	}{
		{"parent with segment", "../src/", "/home/u/project", "/home/u/src"},
		{"parent bare", "../", "/home/u/project", "/home/u"},
		{"parent mid line", "see ../lib/", "/home/u/project", "/home/u/lib"},
		{"current dir", "./", "/home/u/project", "/home/u/project"},
		{"current with segment", "./cmd/", "/home/u/project", "/home/u/project/cmd"},
		{"hidden dir relative", ".config/", "/home/u", "/home/u/.config"},
		{"exact dot", ".", "/home/u/project", "/home/u/project"},
		{"relative without dot slash", "lua/", "/root", "/root/lua"},
		{"relative two levels", "src/main/", "/repo", "/repo/src/main"},
		{"relative after other text", "cd src/", "/repo", "/repo/src"},
		{"partial name discarded", "./cmd/pa", "/repo", "/repo/cmd"},
		{"quote opened path", `"/etc/`, "/repo", "/repo/etc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, ok := r.Resolve(Context{LineBeforeCursor: tt.line, Cwd: tt.cwd})
			require.True(t, ok, "expected %q to resolve", tt.line)
			assert.Equal(t, tt.expected, dir)
		})
	}
}

func TestResolve_HomeAndEnv(t *testing.T) {
	r := newTestResolver(t)

	dir, ok := r.Resolve(Context{LineBeforeCursor: "~/docs/", Cwd: "/tmp"})
	require.True(t, ok)
	assert.Equal(t, "/home/u/docs", dir)

	dir, ok = r.Resolve(Context{LineBeforeCursor: "$HOME/docs/", Cwd: "/tmp"})
	require.True(t, ok)
	assert.Equal(t, "/home/u/docs", dir)

	dir, ok = r.Resolve(Context{LineBeforeCursor: "$XDG_DATA_HOME/", Cwd: "/tmp"})
	require.True(t, ok)
	assert.Equal(t, "/home/u/.local/share", dir)

	// Unset variables must not resolve through later rules either.
	_, ok = r.Resolve(Context{LineBeforeCursor: "$NOPE/", Cwd: "/tmp"})
	assert.False(t, ok)
}

func TestResolve_AbsolutePaths(t *testing.T) {
	r := newTestResolver(t)

	tests := []struct {
		line     string
		expected string
	}{
		{"/usr/", "/usr"},
		{"/usr/local/", "/usr/local"},
		{"see /etc/", "/etc"},
		{"/usr/lo", "/usr"},
	}
	for _, tt := range tests {
		dir, ok := r.Resolve(Context{LineBeforeCursor: tt.line, Cwd: "/tmp"})
		require.True(t, ok, "expected %q to resolve", tt.line)
		assert.Equal(t, tt.expected, dir)
	}
}

func TestResolve_FalsePositives(t *testing.T) {
	r := newTestResolver(t)

	lines := []string{
		"https://example.com/",
		"http://",
		"mailto:/",
		"</",
		"<div></",
		"10/",
		"(a + b)/",
		"5 /",
	}
	for _, line := range lines {
		_, ok := r.Resolve(Context{LineBeforeCursor: line, Cwd: "/tmp"})
		assert.False(t, ok, "expected %q to stay unresolved", line)
	}
}

func TestResolve_CommentMarker(t *testing.T) {
	r := newTestResolver(t)

	// A slash-only line in a buffer whose comments start with "//" is a
	// comment being typed, not a path.
	_, ok := r.Resolve(Context{LineBeforeCursor: "//", Cwd: "/tmp", LineComment: "//"})
	assert.False(t, ok)

	// Without the comment marker the same text is a root listing.
	dir, ok := r.Resolve(Context{LineBeforeCursor: "//", Cwd: "/tmp"})
	require.True(t, ok)
	assert.Equal(t, "/", dir)

	// A hash comment marker does not guard slashes.
	dir, ok = r.Resolve(Context{LineBeforeCursor: "//", Cwd: "/tmp", LineComment: "#"})
	require.True(t, ok)
	assert.Equal(t, "/", dir)
}

func TestResolve_CwdFallbacks(t *testing.T) {
	r := newTestResolver(t)

	// A bare prefix with no separator lists the current directory.
	dir, ok := r.Resolve(Context{LineBeforeCursor: "fil", Cwd: "/home/u"})
	require.True(t, ok)
	assert.Equal(t, "/home/u", dir)

	dir, ok = r.Resolve(Context{LineBeforeCursor: "", Cwd: "/home/u"})
	require.True(t, ok)
	assert.Equal(t, "/home/u", dir)
}

func TestResolve_Idempotent(t *testing.T) {
	r := newTestResolver(t)
	ctx := Context{LineBeforeCursor: "../src/ma", Cwd: "/home/u/project"}

	first, ok1 := r.Resolve(ctx)
	second, ok2 := r.Resolve(ctx)
	assert.Equal(t, ok1, ok2)
	assert.Equal(t, first, second)
}

func TestResolve_OffsetTruncatesLine(t *testing.T) {
	r := newTestResolver(t)

	// Only the text before the cursor participates.
	dir, ok := r.Resolve(Context{
		LineBeforeCursor: "../src/ignored-tail",
		Offset:           7,
		Cwd:              "/home/u/project",
	})
	require.True(t, ok)
	assert.Equal(t, "/home/u/src", dir)
}

func TestResolve_WindowsMode(t *testing.T) {
	r := NewResolver(Config{
		Windows:   true,
		HomeDir:   func() (string, error) { return `C:\Users\u`, nil },
		LookupEnv: func(string) (string, bool) { return "", false },
	})

	// Segment names may not end in a space, dot, or tilde on Windows, so the
	// backward chain extension stops at "src." instead of swallowing it.
	hasSplit, prefix, _ := r.split(`a/src./sub/`)
	assert.True(t, hasSplit)
	assert.Equal(t, `a/src./`, prefix)

	// Backslashes act as separators.
	hasSplit, prefix, dirname := r.split(`..\src\mai`)
	assert.True(t, hasSplit)
	assert.Equal(t, `..\`, prefix)
	assert.Equal(t, `src\`, dirname)
}

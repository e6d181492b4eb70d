package pathsource

import (
	"errors"
	"fmt"
	"os"

	"github.com/gobwas/glob"
)

// Context identifies one completion request from the host: the text of the
// current line up to the cursor, the cursor's byte offset, and the buffer's
// line-comment marker (empty when unknown).
type Context struct {
	LineBeforeCursor string
	Offset           int
	LineComment      string
}

// CwdProvider computes the base directory for relative resolution, typically
// the directory containing the buffer the request came from.
type CwdProvider func(ctx Context) (string, error)

// Options is the per-source configuration. A misconfigured option set is a
// programmer error: New rejects it instead of papering over it.
type Options struct {
	// TrailingSlash keeps the trailing separator on a directory candidate's
	// filter word, so the separator participates in word-boundary matching.
	TrailingSlash bool

	// LabelTrailingSlash shows a trailing separator on directory labels.
	LabelTrailingSlash bool

	// CwdProvider computes the base directory for relative resolution.
	CwdProvider CwdProvider

	// ShowHiddenByDefault includes dot-files even without a "."-triggering
	// prefix.
	ShowHiddenByDefault bool

	// IgnorePatterns are glob patterns matched against raw entry names;
	// matching entries never become candidates.
	IgnorePatterns []string

	// MaxPreviewLines bounds documentation previews. -1 means unbounded.
	MaxPreviewLines int
}

// DefaultOptions returns the options used when the host configures nothing:
// directories keep their trailing separator, hidden files stay hidden until
// a dot is typed, and the base directory is the process working directory.
func DefaultOptions() Options {
	return Options{
		TrailingSlash:      true,
		LabelTrailingSlash: true,
		CwdProvider: func(Context) (string, error) {
			return os.Getwd()
		},
		ShowHiddenByDefault: false,
		MaxPreviewLines:     8,
	}
}

// Validate reports the first configuration error, or nil.
func (o Options) Validate() error {
	if o.CwdProvider == nil {
		return errors.New("options: CwdProvider must not be nil")
	}
	if o.MaxPreviewLines < -1 {
		return fmt.Errorf("options: MaxPreviewLines must be >= -1, got %d", o.MaxPreviewLines)
	}
	for _, pattern := range o.IgnorePatterns {
		if _, err := glob.Compile(pattern); err != nil {
			return fmt.Errorf("options: invalid ignore pattern %q: %w", pattern, err)
		}
	}
	return nil
}

// compileIgnorePatterns assumes Validate has passed.
func (o Options) compileIgnorePatterns() []glob.Glob {
	if len(o.IgnorePatterns) == 0 {
		return nil
	}
	globs := make([]glob.Glob, 0, len(o.IgnorePatterns))
	for _, pattern := range o.IgnorePatterns {
		globs = append(globs, glob.MustCompile(pattern))
	}
	return globs
}

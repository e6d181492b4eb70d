// Package resolver turns the free text before an editing cursor into an
// absolute directory to scan for completion candidates.
//
// The text is not a structured grammar: "../src/", "~/do", "$HOME/.co",
// "C:\Users\" and "https://example.com/" all end in a separator, but only
// some of them name a directory the user is typing a path into. Resolution
// is therefore an ordered list of named heuristic rules; the first rule that
// matches wins, and each rule is testable in isolation.
package resolver

import (
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"go.uber.org/zap"
)

// Context describes a single resolution request. It is immutable per request.
type Context struct {
	// LineBeforeCursor is the full text of the current line up to the cursor.
	LineBeforeCursor string

	// Offset is the cursor's byte offset within the line.
	Offset int

	// Cwd is the caller-supplied base directory for relative resolution,
	// typically the directory containing the edited buffer.
	Cwd string

	// LineComment is the host buffer's line-comment marker ("//", "#", ...).
	// When it contains a slash, a line holding nothing but comment markers is
	// rejected rather than resolved as an absolute path. Empty disables the
	// guard.
	LineComment string
}

// Config configures a Resolver. The zero value is usable; lookups default to
// the os package and Windows mode defaults to the running platform.
type Config struct {
	// Windows switches separator handling, segment-name strictness and the
	// drive-letter rule. Exposed so the Windows behavior is testable anywhere.
	Windows bool

	// HomeDir resolves "~/". Defaults to os.UserHomeDir.
	HomeDir func() (string, error)

	// LookupEnv resolves "$NAME/". Defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)

	// Logger for debug output. If nil, a no-op logger is used.
	Logger *zap.Logger
}

// Resolver resolves cursor text to directories. It is pure: no filesystem
// I/O happens during Resolve, and resolving the same Context twice yields
// the same result.
type Resolver struct {
	windows   bool
	homeDir   func() (string, error)
	lookupEnv func(string) (string, bool)
	logger    *zap.Logger
	rules     []rule
}

// rule is one named predicate/resolver pair. apply returns the resolved
// directory and true when the rule matches; false passes to the next rule.
type rule struct {
	name  string
	apply func(in input) (string, bool)
}

// input is the pre-split view of the request line shared by all rules.
type input struct {
	// line is the text before the cursor.
	line string

	// hasSplit reports whether a separator chain was found. When true,
	// prefix is everything up to and including the chain's first separator
	// and dirname is the chain between that separator and the partial name
	// being typed, with a trailing alphabetic run stripped.
	hasSplit bool
	prefix   string
	dirname  string

	ctx Context
}

// NewResolver creates a Resolver from cfg.
func NewResolver(cfg Config) *Resolver {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	homeDir := cfg.HomeDir
	if homeDir == nil {
		homeDir = os.UserHomeDir
	}
	lookupEnv := cfg.LookupEnv
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}

	r := &Resolver{
		windows:   cfg.Windows,
		homeDir:   homeDir,
		lookupEnv: lookupEnv,
		logger:    logger,
	}
	r.rules = []rule{
		{"exact-dot", r.ruleExactDot},
		{"dot-relative", r.ruleDotRelative},
		{"parent", r.ruleParent},
		{"current-or-quote", r.ruleCurrentOrQuote},
		{"home", r.ruleHome},
		{"env-var", r.ruleEnvVar},
		{"drive-letter", r.ruleDriveLetter},
		{"relative", r.ruleRelative},
		{"absolute", r.ruleAbsolute},
		{"trailing-relative", r.ruleTrailingRelative},
		{"bare-cwd", r.ruleBareCwd},
	}
	return r
}

// NewDefaultResolver creates a Resolver for the running platform.
func NewDefaultResolver(logger *zap.Logger) *Resolver {
	return NewResolver(Config{
		Windows: runtime.GOOS == "windows",
		Logger:  logger,
	})
}

// Resolve converts ctx into an absolute directory. The second return value is
// false when no rule recognizes the text as a path ("unresolved").
func (r *Resolver) Resolve(ctx Context) (string, bool) {
	line := ctx.LineBeforeCursor
	if ctx.Offset > 0 && ctx.Offset < len(line) {
		line = line[:ctx.Offset]
	}

	in := input{line: line, ctx: ctx}
	in.hasSplit, in.prefix, in.dirname = r.split(line)

	for _, rl := range r.rules {
		dir, ok := rl.apply(in)
		if !ok {
			continue
		}
		dir = filepath.Clean(dir)
		if !filepath.IsAbs(dir) {
			r.logger.Debug("resolved path is not absolute, treating as unresolved",
				zap.String("rule", rl.name),
				zap.String("path", dir))
			return "", false
		}
		r.logger.Debug("resolved directory",
			zap.String("rule", rl.name),
			zap.String("dirname", dir))
		return dir, true
	}
	return "", false
}

// split locates the separator chain preceding the partial name under the
// cursor. The last separator in the line anchors a backward extension through
// "/name" and "/.." chain segments; the chain's first separator is the split
// point. No split is reported when the line has no separator or the partial
// name after the last separator contains characters a path segment cannot.
func (r *Resolver) split(line string) (bool, string, string) {
	lastSep := strings.LastIndexAny(line, r.separators())
	if lastSep < 0 {
		return false, "", ""
	}
	if !r.nameRunOK(line[lastSep+1:]) {
		return false, "", ""
	}

	s := lastSep
	for {
		prev := strings.LastIndexAny(line[:s], r.separators())
		if prev < 0 {
			break
		}
		seg := line[prev+1 : s]
		if seg != ".." && !r.segmentOK(seg) {
			break
		}
		s = prev
	}

	prefix := line[:s+1]
	dirname := trimTrailingAlpha(line[s+1:])
	return true, prefix, dirname
}

// Exactly "." resolves to the base directory, so hidden entries can be
// revealed immediately.
func (r *Resolver) ruleExactDot(in input) (string, bool) {
	if in.line != "." {
		return "", false
	}
	return in.ctx.Cwd, true
}

// A line starting with "." and ending in a separator is a relative path as a
// whole: "./src/", "../", ".config/".
func (r *Resolver) ruleDotRelative(in input) (string, bool) {
	if !strings.HasPrefix(in.line, ".") || !r.endsInSeparator(in.line) {
		return "", false
	}
	return filepath.Join(in.ctx.Cwd, in.line[:len(in.line)-1]), true
}

func (r *Resolver) ruleParent(in input) (string, bool) {
	if !in.hasSplit || !r.hasSepSuffix(in.prefix, "..") {
		return "", false
	}
	return filepath.Join(in.ctx.Cwd, "..", in.dirname), true
}

// "./" resolves against the base directory, as does a path opened by a quote
// character ('"src/', "'src/"): string literals in code commonly hold
// relative paths.
func (r *Resolver) ruleCurrentOrQuote(in input) (string, bool) {
	if !in.hasSplit {
		return "", false
	}
	if r.hasSepSuffix(in.prefix, ".") || r.hasSepSuffix(in.prefix, `"`) || r.hasSepSuffix(in.prefix, "'") {
		return filepath.Join(in.ctx.Cwd, in.dirname), true
	}
	return "", false
}

func (r *Resolver) ruleHome(in input) (string, bool) {
	if !in.hasSplit || !r.hasSepSuffix(in.prefix, "~") {
		return "", false
	}
	home, err := r.homeDir()
	if err != nil {
		r.logger.Debug("home directory lookup failed", zap.Error(err))
		return "", false
	}
	return filepath.Join(home, in.dirname), true
}

var envVarPattern = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)[/\\]$`)

// "$NAME/" resolves through the environment, but only when NAME is actually
// set; otherwise later rules (and their guards) decide.
func (r *Resolver) ruleEnvVar(in input) (string, bool) {
	if !in.hasSplit {
		return "", false
	}
	m := envVarPattern.FindStringSubmatch(in.prefix)
	if m == nil {
		return "", false
	}
	value, ok := r.lookupEnv(m[1])
	if !ok {
		return "", false
	}
	return filepath.Join(value, in.dirname), true
}

var drivePattern = regexp.MustCompile(`([A-Za-z]):[/\\]$`)

func (r *Resolver) ruleDriveLetter(in input) (string, bool) {
	if !r.windows || !in.hasSplit {
		return "", false
	}
	m := drivePattern.FindStringSubmatch(in.prefix)
	if m == nil {
		return "", false
	}
	return filepath.Join(m[1]+`:\`, in.dirname), true
}

var schemePrefixPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]*://`)

// A separator-terminated prefix that is not anchored at "/", "~" or "$" and
// is not a URL scheme is a relative path typed without "./": "lua/" in
// "require lua/" resolves under the base directory.
func (r *Resolver) ruleRelative(in input) (string, bool) {
	if !in.hasSplit {
		return "", false
	}
	if strings.HasPrefix(in.prefix, "/") || strings.HasPrefix(in.prefix, "~") || strings.HasPrefix(in.prefix, "$") {
		return "", false
	}
	if schemePrefixPattern.MatchString(in.prefix) {
		return "", false
	}
	if arithmeticSuffixPattern.MatchString(in.prefix) {
		return "", false
	}
	rel := r.trailingName(in.prefix[:len(in.prefix)-1])
	if strings.TrimSpace(rel) == "" {
		return "", false
	}
	return filepath.Join(in.ctx.Cwd, rel, in.dirname), true
}

var (
	schemeSuffixPattern     = regexp.MustCompile(`[A-Za-z][A-Za-z0-9+.-]*:/+$`)
	arithmeticSuffixPattern = regexp.MustCompile(`[\d)][ \t]*/$`)
)

// Bare absolute paths ("/usr/") are high-value but "/"-terminated text is
// full of look-alikes. Each guard names one: URL schemes, HTML closing tags,
// arithmetic division, and comment markers in buffers whose comment syntax
// uses slashes.
func (r *Resolver) ruleAbsolute(in input) (string, bool) {
	if !in.hasSplit || !r.endsInSeparator(in.prefix) {
		return "", false
	}
	if len(in.prefix) >= 2 && isAlpha(in.prefix[len(in.prefix)-2]) {
		return "", false
	}
	if schemeSuffixPattern.MatchString(in.prefix) {
		return "", false
	}
	if strings.HasSuffix(in.prefix, "</") {
		return "", false
	}
	if arithmeticSuffixPattern.MatchString(in.prefix) {
		return "", false
	}
	if strings.Contains(in.ctx.LineComment, "/") && strings.Trim(in.prefix, " \t/") == "" {
		return "", false
	}
	return filepath.Join("/", in.dirname), true
}

// With a separator present but no valid split (the partial name holds
// characters a path segment cannot), everything up to the last separator is
// still worth trying as a relative directory.
func (r *Resolver) ruleTrailingRelative(in input) (string, bool) {
	if in.hasSplit {
		return "", false
	}
	lastSep := strings.LastIndexAny(in.line, r.separators())
	if lastSep < 0 {
		return "", false
	}
	return filepath.Join(in.ctx.Cwd, in.line[:lastSep+1]), true
}

// A line with no separator at all lists the base directory, so candidates
// appear while a bare name is being typed.
func (r *Resolver) ruleBareCwd(in input) (string, bool) {
	if strings.ContainsAny(in.line, r.separators()) {
		return "", false
	}
	return in.ctx.Cwd, true
}

func (r *Resolver) separators() string {
	if r.windows {
		return `/\`
	}
	return "/"
}

func (r *Resolver) isSeparator(b byte) bool {
	return b == '/' || (r.windows && b == '\\')
}

func (r *Resolver) endsInSeparator(s string) bool {
	return len(s) > 0 && r.isSeparator(s[len(s)-1])
}

// hasSepSuffix reports whether s ends in body followed by one separator.
func (r *Resolver) hasSepSuffix(s, body string) bool {
	if !r.endsInSeparator(s) {
		return false
	}
	return strings.HasSuffix(s[:len(s)-1], body)
}

// invalidNameChars are the bytes a path segment can never contain. Quotes and
// backticks are excluded because paths are frequently typed inside string
// literals.
const invalidNameChars = "/\\:*?<>'\"`|"

// nameRunOK reports whether every byte of s could be part of a segment name.
// An empty run is fine (the cursor sits right after a separator).
func (r *Resolver) nameRunOK(s string) bool {
	return !strings.ContainsAny(s, invalidNameChars)
}

// segmentOK reports whether s is a complete, valid chain segment. Windows
// forbids segment names ending in a space, dot, or tilde.
func (r *Resolver) segmentOK(s string) bool {
	if s == "" || !r.nameRunOK(s) {
		return false
	}
	if r.windows {
		switch s[len(s)-1] {
		case ' ', '.', '~':
			return false
		}
	}
	return true
}

// trailingName returns the longest run of segment-name bytes (excluding
// spaces and quotes) at the end of s.
func (r *Resolver) trailingName(s string) string {
	i := len(s)
	for i > 0 {
		b := s[i-1]
		if b == ' ' || b == '\t' || strings.IndexByte(invalidNameChars, b) >= 0 {
			break
		}
		i--
	}
	return s[i:]
}

func trimTrailingAlpha(s string) string {
	i := len(s)
	for i > 0 && isAlpha(s[i-1]) {
		i--
	}
	return s[:i]
}

func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

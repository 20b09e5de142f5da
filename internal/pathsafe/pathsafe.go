// Package pathsafe normalizes and validates file paths against traversal
// and encoding attacks. Resolution is lexical: it never touches the
// filesystem, so verdicts are deterministic whether or not the target
// exists. Any failure during resolution is treated as unsafe (fail closed).
package pathsafe

import (
	"errors"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
)

// maxDecodeRounds bounds iterative percent-decoding. Two rounds cover
// double encoding (%252e); anything deeper is hostile by definition.
const maxDecodeRounds = 3

var (
	// ErrTraversal is returned for any form of parent-directory escape.
	ErrTraversal = errors.New("path traversal")
	// ErrEncoding is returned for null bytes and invalid or hostile encodings.
	ErrEncoding = errors.New("unsafe path encoding")
	// ErrOutsideBase is returned when the canonical path is not a strict
	// descendant of the base directory.
	ErrOutsideBase = errors.New("path outside base directory")
)

// encodedTraversal matches percent-encoded dot and separator sequences in
// the raw string, before any decoding, in any casing and at any encoding
// depth (%2e, %252e, ...).
var encodedTraversal = regexp.MustCompile(`(?i)%(25)*(2e|2f|5c|c0|c1|e0%80|00)`)

var driveLetter = regexp.MustCompile(`^[a-zA-Z]:[\\/]`)

// IsSafe reports whether path resolves to a strict descendant of baseDir.
func IsSafe(path, baseDir string) bool {
	_, err := Resolve(path, baseDir)
	return err == nil
}

// Resolve validates path against baseDir and returns its canonical form.
// The algorithm: reject hostile encoded substrings in the raw input,
// percent-decode to a fixed point within a bounded round count, reject
// traversal tokens in the decoded result, canonicalize against baseDir,
// and require the result to be a strict descendant of baseDir.
func Resolve(path, baseDir string) (string, error) {
	if path == "" || baseDir == "" {
		return "", ErrOutsideBase
	}
	if strings.ContainsRune(path, 0) {
		return "", ErrEncoding
	}

	// Known dangerous encoded substrings are rejected on the raw string so
	// no decoder disagreement can launder them.
	if encodedTraversal.MatchString(path) {
		return "", ErrEncoding
	}

	decoded, err := decodeFully(path)
	if err != nil {
		return "", err
	}

	if strings.ContainsRune(decoded, 0) {
		return "", ErrEncoding
	}
	// Backslashes alias the separator on some filesystems; normalize before
	// the traversal check so `..\` cannot slip through.
	decoded = strings.ReplaceAll(decoded, `\`, "/")
	if driveLetter.MatchString(decoded) {
		return "", ErrOutsideBase
	}
	for _, part := range strings.Split(decoded, "/") {
		if part == ".." {
			return "", ErrTraversal
		}
	}

	base, err := filepath.Abs(baseDir)
	if err != nil {
		return "", ErrOutsideBase
	}
	base = filepath.Clean(base)

	var resolved string
	if filepath.IsAbs(decoded) {
		resolved = filepath.Clean(decoded)
	} else {
		resolved = filepath.Clean(filepath.Join(base, decoded))
	}

	// Strict descendant: the base directory itself is not a valid target.
	prefix := base + string(filepath.Separator)
	if !strings.HasPrefix(resolved, prefix) {
		return "", ErrOutsideBase
	}

	return resolved, nil
}

// decodeFully percent-decodes to a fixed point, up to maxDecodeRounds.
// A string still changing after the round limit is hostile.
func decodeFully(path string) (string, error) {
	current := path
	for round := 0; round < maxDecodeRounds; round++ {
		if !strings.Contains(current, "%") {
			return current, nil
		}
		next, err := url.PathUnescape(current)
		if err != nil {
			// An invalid escape could alias a separator on a laxer decoder.
			return "", ErrEncoding
		}
		if next == current {
			return current, nil
		}
		current = next
	}
	if strings.Contains(current, "%") {
		return "", ErrEncoding
	}
	return current, nil
}

// Within reports whether resolved (already canonical) is baseDir itself or
// one of its descendants. Helper for callers comparing pre-resolved paths.
func Within(resolved, baseDir string) bool {
	base := filepath.Clean(baseDir)
	return resolved == base || strings.HasPrefix(resolved, base+string(filepath.Separator))
}

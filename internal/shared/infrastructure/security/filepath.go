// Package security guards file system access driven by user input.
package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrOutsideBaseDir is returned when a path resolves outside its base directory.
var ErrOutsideBaseDir = errors.New("path escapes base directory")

// forbiddenChars are shell metacharacters never accepted in a path.
var forbiddenChars = []string{";", "&", "|", "$", "`", "(", ")", "{", "}", "<", ">", "!", "\n", "\r"}

// ResolvePath cleans a path, makes it absolute and resolves symlinks when the
// target exists. Paths that do not exist yet are returned cleaned.
func ResolvePath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("file path cannot be empty")
	}
	for _, char := range forbiddenChars {
		if strings.Contains(path, char) {
			return "", fmt.Errorf("file path contains forbidden character %q: %s", char, path)
		}
	}
	return resolve(path)
}

// ValidateSegment accepts a single path element such as a category or file
// name. Separators, "." and ".." are rejected.
func ValidateSegment(name string) error {
	switch {
	case name == "", name == ".", name == "..":
		return fmt.Errorf("invalid path segment %q", name)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("path segment %q contains a separator", name)
	}
	for _, char := range forbiddenChars {
		if strings.Contains(name, char) {
			return fmt.Errorf("path segment contains forbidden character %q", char)
		}
	}
	return nil
}

// ResolveInDir joins the segments onto baseDir and resolves the result,
// failing with ErrOutsideBaseDir if it lands outside baseDir.
func ResolveInDir(baseDir string, segments ...string) (string, error) {
	if baseDir == "" {
		return "", fmt.Errorf("base directory cannot be empty")
	}
	for _, seg := range segments {
		if err := ValidateSegment(seg); err != nil {
			return "", err
		}
	}

	base, err := resolve(baseDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve base directory: %w", err)
	}
	target, err := resolve(filepath.Join(append([]string{base}, segments...)...))
	if err != nil {
		return "", err
	}

	// The trailing separator keeps /foo from matching /foobar.
	if target != base && !strings.HasPrefix(target, base+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s is not within %s", ErrOutsideBaseDir, target, baseDir)
	}
	return target, nil
}

// OpenInDir opens a file below baseDir after validating its path.
func OpenInDir(baseDir string, segments ...string) (*os.File, error) {
	path, err := ResolveInDir(baseDir, segments...)
	if err != nil {
		return nil, err
	}
	// #nosec G304 - path is validated above
	return os.Open(path)
}

func resolve(path string) (string, error) {
	clean := filepath.Clean(path)
	if !filepath.IsAbs(clean) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
		clean = filepath.Join(cwd, clean)
	}

	resolved, err := filepath.EvalSymlinks(clean)
	if err != nil {
		if os.IsNotExist(err) {
			return clean, nil
		}
		return "", fmt.Errorf("failed to resolve file path: %w", err)
	}
	return resolved, nil
}

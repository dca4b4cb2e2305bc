package flateralus

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidManifest is matched by every *InvalidManifestError.
	ErrInvalidManifest = errors.New("invalid manifest")
	// ErrInvalidControlValues is matched by every *InvalidControlValuesError.
	ErrInvalidControlValues = errors.New("invalid control values")

	ErrNotInitialized       = errors.New("not initialized")
	ErrAlreadyInitialized   = errors.New("already initialized")
	ErrAnimationDestroyed   = errors.New("animation destroyed")
	ErrApplicationDestroyed = errors.New("application destroyed")
)

// Issue is one validation failure. Path addresses the offending field, e.g.
// "controls[2].options" for manifests or "palette[1].value" for values.
type Issue struct {
	Path     string
	Expected string
	Message  string
}

func (i Issue) String() string {
	if i.Expected == "" {
		return fmt.Sprintf("%s: %s", i.Path, i.Message)
	}
	return fmt.Sprintf("%s: %s (expected %s)", i.Path, i.Message, i.Expected)
}

// InvalidManifestError reports structural problems of a manifest.
type InvalidManifestError struct {
	ManifestID string
	Issues     []Issue
}

func (e *InvalidManifestError) Error() string {
	return formatIssues(fmt.Sprintf("invalid manifest %q", e.ManifestID), e.Issues)
}

func (e *InvalidManifestError) Is(target error) bool {
	return target == ErrInvalidManifest
}

// InvalidControlValuesError reports a value map that does not satisfy the
// manifest's synthesized schema.
type InvalidControlValuesError struct {
	ManifestID string
	Issues     []Issue
}

func (e *InvalidControlValuesError) Error() string {
	return formatIssues(fmt.Sprintf("invalid control values for manifest %q", e.ManifestID), e.Issues)
}

func (e *InvalidControlValuesError) Is(target error) bool {
	return target == ErrInvalidControlValues
}

// Fields returns the distinct top-level control names named by the issues.
func (e *InvalidControlValuesError) Fields() []string {
	var out []string
	seen := make(map[string]bool)
	for _, is := range e.Issues {
		name := is.Path
		if i := strings.IndexAny(name, ".["); i >= 0 {
			name = name[:i]
		}
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

func formatIssues(head string, issues []Issue) string {
	var b strings.Builder
	b.WriteString(head)
	for i, is := range issues {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		b.WriteString(is.String())
	}
	return b.String()
}

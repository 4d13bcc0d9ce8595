// Package targets loads the client allow-list a restore is scoped to.
package targets

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/maidbook/maidbook/internal/models"
)

// Aliases of the shared validation errors, kept for callers of this package.
var (
	ErrDuplicateID = models.ErrDuplicateTarget
	ErrMissingID   = models.ErrMissingTargetID
)

type fileEntry struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	Email     string `yaml:"email"`
	Phone     string `yaml:"phone"`
	CreatedAt string `yaml:"created_at"`
}

type fileDoc struct {
	Targets []fileEntry `yaml:"targets"`
}

var createdAtLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

// Load reads a YAML or JSON targets file. The document is either a bare list
// of identities or a mapping with a "targets" key.
func Load(path string) ([]models.TargetIdentity, error) {
	data, err := os.ReadFile(path) //nolint:gosec // operator-supplied path
	if err != nil {
		return nil, fmt.Errorf("reading targets file: %w", err)
	}

	return Parse(data)
}

// Parse decodes and validates a targets document.
func Parse(data []byte) ([]models.TargetIdentity, error) {
	var entries []fileEntry

	if err := yaml.Unmarshal(data, &entries); err != nil {
		var doc fileDoc
		if err2 := yaml.Unmarshal(data, &doc); err2 != nil {
			return nil, fmt.Errorf("parsing targets: %w", err2)
		}

		entries = doc.Targets
	}

	out := make([]models.TargetIdentity, 0, len(entries))

	for i, e := range entries {
		createdAt, err := parseCreatedAt(e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("target %d: %w", i, err)
		}

		out = append(out, models.TargetIdentity{
			ID:        strings.TrimSpace(e.ID),
			Name:      strings.TrimSpace(e.Name),
			Email:     strings.TrimSpace(e.Email),
			Phone:     strings.TrimSpace(e.Phone),
			CreatedAt: createdAt,
		})
	}

	if err := models.ValidateTargets(out); err != nil {
		return nil, err
	}

	return out, nil
}

// parseCreatedAt accepts an empty value, which leaves the zero time so the
// store stamps the insert time instead.
func parseCreatedAt(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}

	for _, layout := range createdAtLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid created_at %q", s)
}

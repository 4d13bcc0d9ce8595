package targets_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/maidbook/maidbook/internal/models"
	"github.com/maidbook/maidbook/internal/targets"
)

func TestParse_BareList(t *testing.T) {
	data := []byte(`
- id: c1
  name: Ann Lee
  phone: "5551234567"
  created_at: "2023-04-01T10:00:00Z"
- id: c2
  name: Bo Ray
  email: bo@example.com
`)

	got, err := targets.Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}

	if got[0].Phone != "5551234567" || !got[0].CreatedAt.Equal(time.Date(2023, 4, 1, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("got %+v", got[0])
	}

	if !got[1].CreatedAt.IsZero() {
		t.Errorf("expected zero created_at, got %v", got[1].CreatedAt)
	}
}

func TestParse_WrappedJSON(t *testing.T) {
	data := []byte(`{"targets": [{"id": "c9", "name": "Cy", "created_at": "2022-01-05"}]}`)

	got, err := targets.Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 1 || got[0].ID != "c9" {
		t.Fatalf("got %+v", got)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"empty", "[]", models.ErrMissingTargets},
		{"missing id", "- name: x", targets.ErrMissingID},
		{"duplicate", "- id: a\n- id: a", targets.ErrDuplicateID},
		{"blank id", "- id: \"  \"\n  name: x", models.ErrMissingTargetID},
		{"duplicate after trim", "- id: a\n- id: \" a \"", models.ErrDuplicateTarget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := targets.Parse([]byte(tt.data))
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParse_BadCreatedAt(t *testing.T) {
	if _, err := targets.Parse([]byte("- id: a\n  created_at: yesterday")); err == nil {
		t.Fatal("expected error")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "targets.yaml")
	if err := os.WriteFile(path, []byte("targets:\n  - id: z\n    name: Zed\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := targets.Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got[0].Name != "Zed" {
		t.Errorf("name = %q", got[0].Name)
	}

	if _, err := targets.Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

package theme

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dshills/spantrack/internal/engine/buffer"
	"github.com/dshills/spantrack/internal/engine/segment"
)

const sample = `
name = "plain"

[scopes]
comment = 1
keyword = 2
string  = 3
`

func TestParse(t *testing.T) {
	th, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if th.Name() != "plain" {
		t.Errorf("Name = %q", th.Name())
	}
	if th.Class("keyword") != 2 {
		t.Errorf("Class(keyword) = %d", th.Class("keyword"))
	}
	if th.Class("unknown.scope") != segment.DefaultClass {
		t.Errorf("unstyled scope should map to default, got %d", th.Class("unknown.scope"))
	}

	scopes := th.Scopes()
	want := []string{"comment", "keyword", "string"}
	if len(scopes) != len(want) {
		t.Fatalf("Scopes = %v", scopes)
	}
	for i, s := range want {
		if scopes[i] != s {
			t.Errorf("Scopes[%d] = %q, want %q", i, scopes[i], s)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"malformed", `name = `},
		{"missing name", `[scopes]` + "\n" + `comment = 1`},
		{"zero class", "name = \"x\"\n[scopes]\ncomment = 0"},
		{"negative class", "name = \"x\"\n[scopes]\ncomment = -2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); !errors.Is(err, ErrInvalidTheme) {
				t.Errorf("Parse(%q) = %v, want ErrInvalidTheme", tt.data, err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.toml")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}

	th, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if th.Name() != "plain" {
		t.Errorf("Name = %q", th.Name())
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("Load of missing file should fail")
	}
}

func TestApply(t *testing.T) {
	th, err := Parse([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}

	m := segment.New()
	th.Apply(m, []ScopedRun{
		{Scope: "keyword", Range: buffer.NewRange(0, 4)},
		{Scope: "string", Range: buffer.NewRange(10, 20)},
		{Scope: "unstyled", Range: buffer.NewRange(2, 3)},
	})

	if got := m.ClassAt(0); got != 2 {
		t.Errorf("ClassAt(0) = %d, want 2", got)
	}
	if got := m.ClassAt(2); got != segment.DefaultClass {
		t.Errorf("ClassAt(2) = %d, want default (unstyled run resets)", got)
	}
	if got := m.ClassAt(3); got != 2 {
		t.Errorf("ClassAt(3) = %d, want 2", got)
	}
	if got := m.ClassAt(15); got != 3 {
		t.Errorf("ClassAt(15) = %d, want 3", got)
	}
	if got := m.ClassAt(5); got != segment.DefaultClass {
		t.Errorf("ClassAt(5) = %d, want default", got)
	}
}

func TestWatcherReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "theme.toml")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}

	reloaded := make(chan *Theme, 1)
	w, initial, err := Watch(path, func(th *Theme) {
		select {
		case reloaded <- th:
		default:
		}
	}, WithDebounce(10*time.Millisecond))
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer w.Close()

	if initial.Name() != "plain" {
		t.Errorf("initial Name = %q", initial.Name())
	}

	updated := `
name = "dark"

[scopes]
comment = 7
`
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case th := <-reloaded:
		if th.Name() != "dark" {
			t.Errorf("reloaded Name = %q", th.Name())
		}
		if th.Class("comment") != 7 {
			t.Errorf("reloaded Class(comment) = %d", th.Class("comment"))
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}

func TestWatcherIgnoresBrokenReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "theme.toml")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}

	reloaded := make(chan *Theme, 4)
	w, _, err := Watch(path, func(th *Theme) {
		reloaded <- th
	}, WithDebounce(10*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	// A broken write must not produce a callback.
	if err := os.WriteFile(path, []byte(`name = `), 0o644); err != nil {
		t.Fatal(err)
	}
	// A following good write still reloads.
	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(path, []byte("name = \"fixed\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case th := <-reloaded:
		if th.Name() != "fixed" {
			t.Errorf("reloaded Name = %q", th.Name())
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}

func TestWatchMissingFile(t *testing.T) {
	if _, _, err := Watch(filepath.Join(t.TempDir(), "nope.toml"), nil); err == nil {
		t.Error("Watch of missing file should fail")
	}
}

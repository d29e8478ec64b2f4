package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/patchbay/pkg/registry"
)

const testLibrary = `blocks:
  - id: Const
    category: Sources
    outputs: [float]
    params:
      - name: value
        type: float
        default: 0.0
  - id: Sink
    category: Sinks
    inputs: [float]
`

func TestRootCommandSubcommands(t *testing.T) {
	c := New(os.Stderr, log.InfoLevel)
	root := c.RootCommand()

	want := []string{"blocks", "check", "route", "export", "revisions", "completion"}
	for _, name := range want {
		found := false
		for _, sub := range root.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command missing subcommand %q", name)
		}
	}
}

func TestLoadLibraryPathFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blocks.yaml")
	if err := os.WriteFile(path, []byte(testLibrary), 0600); err != nil {
		t.Fatalf("write library: %v", err)
	}

	reg := registry.New()
	n, err := loadLibraryPath(reg, path)
	if err != nil {
		t.Fatalf("loadLibraryPath: %v", err)
	}
	if n != 2 {
		t.Errorf("loaded %d blocks, want 2", n)
	}
	if !reg.Has("Const") || !reg.Has("Sink") {
		t.Errorf("registry missing expected blocks: %v", reg.IDs())
	}
}

func TestLoadLibraryPathDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "blocks.yaml"), []byte(testLibrary), 0600); err != nil {
		t.Fatalf("write library: %v", err)
	}
	// Non-YAML and hidden files are skipped.
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore"), 0600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".hidden.yaml"), []byte("ignore"), 0600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg := registry.New()
	n, err := loadLibraryPath(reg, dir)
	if err != nil {
		t.Fatalf("loadLibraryPath: %v", err)
	}
	if n != 2 {
		t.Errorf("loaded %d blocks, want 2", n)
	}
}

func TestLoadLibraryPathMissing(t *testing.T) {
	reg := registry.New()
	if _, err := loadLibraryPath(reg, filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing library path")
	}
}

func TestSignature(t *testing.T) {
	reg := registry.New()
	path := filepath.Join(t.TempDir(), "blocks.yaml")
	if err := os.WriteFile(path, []byte(testLibrary), 0600); err != nil {
		t.Fatalf("write library: %v", err)
	}
	if _, err := loadLibraryPath(reg, path); err != nil {
		t.Fatalf("loadLibraryPath: %v", err)
	}

	tmpl, ok := reg.Template("Const")
	if !ok {
		t.Fatal("Const not registered")
	}
	if got := signature(tmpl); got != "() → float" {
		t.Errorf("signature = %q", got)
	}

	tmpl, ok = reg.Template("Sink")
	if !ok {
		t.Fatal("Sink not registered")
	}
	if got := signature(tmpl); got != "float → ()" {
		t.Errorf("signature = %q", got)
	}
}

func TestParamSummary(t *testing.T) {
	lo, hi := 0.0, 10.0
	pd := registry.ParamDef{
		Name: "gain", Kind: registry.ParamFloat, Default: 1.0, Min: &lo, Max: &hi,
	}
	got := paramSummary(pd)
	want := "gain (float) = 1 [0..10]"
	if got != want {
		t.Errorf("paramSummary = %q, want %q", got, want)
	}

	enum := registry.ParamDef{
		Name: "mode", Kind: registry.ParamEnum, Default: "linear", Choices: []string{"linear", "log"},
	}
	got = paramSummary(enum)
	want = "mode (enum) = linear {linear|log}"
	if got != want {
		t.Errorf("paramSummary = %q, want %q", got, want)
	}
}

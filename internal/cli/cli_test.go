package cli

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/arcforge/internal/config"
	"github.com/matzehuels/arcforge/pkg/craft"
	"github.com/matzehuels/arcforge/pkg/craft/style"
	"github.com/matzehuels/arcforge/pkg/dataset"
	"github.com/matzehuels/arcforge/pkg/errors"
)

// exampleDataset is the dataset shipped in examples/.
const exampleDataset = "../../examples/items.toml"

// testCLI returns a quiet CLI reading the example dataset with the config
// and cache directories redirected into the test's temp dir.
func testCLI(t *testing.T) *CLI {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	c := New(io.Discard, log.InfoLevel)
	c.datasetPath = exampleDataset
	return c
}

func mustConfig(t *testing.T, c *CLI) *config.Config {
	t.Helper()
	cfg, err := c.loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	return cfg
}

func TestRootCommand(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()

	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	for _, want := range []string{"items", "tree", "browse", "serve", "cache", "completion"} {
		if !slices.Contains(names, want) {
			t.Errorf("missing subcommand %q in %v", want, names)
		}
	}
	for _, flag := range []string{"config", "dataset"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("missing persistent flag --%s", flag)
		}
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"svg"}},
		{"json", []string{"json"}},
		{"json,svg", []string{"json", "svg"}},
		{" SVG , dot ,", []string{"svg", "dot"}},
	}
	for _, tt := range tests {
		if got := parseFormats(tt.in); !slices.Equal(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, focal, want string
	}{
		{"", "medkit", "medkit"},
		{"out/graph", "medkit", "out/graph"},
		{"out/graph.svg", "medkit", "out/graph"},
		{"out/graph.v2", "medkit", "out/graph.v2"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.focal); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.focal, got, tt.want)
		}
	}
}

func TestWriteArtifacts(t *testing.T) {
	base := filepath.Join(t.TempDir(), "nested", "medkit")
	artifacts := map[string][]byte{"json": []byte("{}"), "svg": []byte("<svg/>")}

	paths, err := writeArtifacts(artifacts, []string{"svg", "json"}, base)
	if err != nil {
		t.Fatalf("writeArtifacts: %v", err)
	}
	if !slices.Equal(paths, []string{base + ".svg", base + ".json"}) {
		t.Errorf("paths = %v", paths)
	}
	data, err := os.ReadFile(base + ".svg")
	if err != nil || string(data) != "<svg/>" {
		t.Errorf("svg = %q, %v", data, err)
	}

	if _, err := writeArtifacts(artifacts, []string{"png"}, base); !errors.Is(err, errors.ErrCodeInternal) {
		t.Errorf("missing artifact error = %v", err)
	}
}

func TestRunTree(t *testing.T) {
	c := testCLI(t)
	base := filepath.Join(t.TempDir(), "medkit")

	err := c.runTree(context.Background(), "medkit", &treeOpts{formats: "json,dot", output: base, noCache: true})
	if err != nil {
		t.Fatalf("runTree: %v", err)
	}

	data, err := os.ReadFile(base + ".json")
	if err != nil {
		t.Fatalf("read json: %v", err)
	}
	var sc struct {
		Focal string            `json:"focal"`
		Nodes []json.RawMessage `json:"nodes"`
		Edges []json.RawMessage `json:"edges"`
	}
	if err := json.Unmarshal(data, &sc); err != nil {
		t.Fatalf("decode scene: %v", err)
	}
	if sc.Focal != "medkit" || len(sc.Nodes) != 10 || len(sc.Edges) != 9 {
		t.Errorf("scene focal=%q nodes=%d edges=%d, want medkit/10/9", sc.Focal, len(sc.Nodes), len(sc.Edges))
	}
	if _, err := os.Stat(base + ".dot"); err != nil {
		t.Errorf("dot artifact: %v", err)
	}
}

func TestRunTreeCached(t *testing.T) {
	c := testCLI(t)
	dir := t.TempDir()

	for i := range 2 {
		if err := c.runTree(context.Background(), "zipline", &treeOpts{formats: "svg", output: filepath.Join(dir, "zipline")}); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}
	cacheDir, err := fileCacheDir(mustConfig(t, c))
	if err != nil {
		t.Fatal(err)
	}
	n, err := clearDir(cacheDir)
	if err != nil || n != 1 {
		t.Errorf("cached entries = %d, %v; want 1", n, err)
	}
}

func TestRunTreeErrors(t *testing.T) {
	c := testCLI(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		focal string
		opts  treeOpts
		code  errors.Code
	}{
		{"unknown item", "medkt", treeOpts{noCache: true}, errors.ErrCodeInvalidFocalItem},
		{"bad format", "medkit", treeOpts{formats: "pdf", noCache: true}, errors.ErrCodeInvalidInput},
		{"stdout with two formats", "medkit", treeOpts{formats: "svg,json", output: "-", noCache: true}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.runTree(ctx, tt.focal, &tt.opts)
			if !errors.Is(err, tt.code) {
				t.Errorf("runTree() = %v, want code %s", err, tt.code)
			}
		})
	}

	err := c.runTree(ctx, "medkt", &treeOpts{noCache: true})
	var unknown *errors.UnknownItemError
	if !errors.As(err, &unknown) || !slices.Contains(unknown.Suggestions, "medkit") {
		t.Errorf("unknown item error = %v", err)
	}
}

func TestMissingDataset(t *testing.T) {
	c := testCLI(t)
	c.datasetPath = filepath.Join(t.TempDir(), "nope.toml")
	err := c.runTree(context.Background(), "medkit", &treeOpts{noCache: true})
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("runTree() = %v, want NOT_FOUND", err)
	}
}

func TestItemTable(t *testing.T) {
	c := testCLI(t)
	cat, err := c.openCatalog(context.Background(), mustConfig(t, c))
	if err != nil {
		t.Fatal(err)
	}

	out := itemTable(cat, cat.Find(dataset.Filter{Kind: "material"}))
	for _, want := range []string{"ID", "Used in", "chemicals", "Plastic Parts"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q", want)
		}
	}
	if strings.Contains(out, "medkit") {
		t.Error("material filter leaked medkit")
	}
}

func TestCompleteItemIDs(t *testing.T) {
	c := testCLI(t)
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())

	got, directive := c.completeItemIDs(cmd, nil, "me")
	if directive != cobra.ShellCompDirectiveNoFileComp {
		t.Errorf("directive = %v", directive)
	}
	want := []string{"medkit\tMedkit", "metal-parts\tMetal Parts"}
	if !slices.Equal(got, want) {
		t.Errorf("completions = %q, want %q", got, want)
	}

	if got, _ := c.completeItemIDs(cmd, []string{"medkit"}, ""); got != nil {
		t.Errorf("second arg completions = %q", got)
	}
}

func TestClearDir(t *testing.T) {
	dir := t.TempDir()
	for _, p := range []string{"ab/one.json", "ab/two.json", "cd/three.json"} {
		path := filepath.Join(dir, p)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	n, err := clearDir(dir)
	if err != nil || n != 3 {
		t.Fatalf("clearDir = %d, %v; want 3", n, err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("left %d entries behind", len(entries))
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("cache dir removed: %v", err)
	}
}

func TestRarityStyle(t *testing.T) {
	for _, r := range []craft.Rarity{craft.RarityCommon, craft.RarityRare, craft.RarityLegendary} {
		want := lipgloss.Color(style.RarityColor(r))
		if got := rarityStyle(r).GetForeground(); got != want {
			t.Errorf("rarityStyle(%v) foreground = %v, want %v", r, got, want)
		}
	}
	if got := rarityStyle(craft.RarityNone).GetForeground(); got != StyleDim.GetForeground() {
		t.Errorf("rarityStyle(none) foreground = %v, want dim", got)
	}
}

// SPDX-License-Identifier: MPL-2.0

package projector_test

import (
	"bytes"
	"context"
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/leaf2fire/RPG-Maker-Scripts/internal/container"
	"github.com/leaf2fire/RPG-Maker-Scripts/internal/projector"
	"github.com/leaf2fire/RPG-Maker-Scripts/internal/testutil"

	"github.com/charmbracelet/log"
)

func newProjector(t *testing.T, tag int64) *projector.Projector {
	t.Helper()
	return projector.New(projector.Options{Root: filepath.Join(t.TempDir(), "Game-Scripts"), Tag: tag})
}

func TestExport_TwoFolderScenario(t *testing.T) {
	t.Parallel()

	p := newProjector(t, 42)
	res, err := p.Export(context.Background(), testutil.SampleStream(t, 42))
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if res != (projector.Result{Sentinels: 2, Folders: 2, Scripts: 2}) {
		t.Errorf("Export() result = %+v", res)
	}

	manifest, err := projector.ReadManifest(p.ManifestPath())
	if err != nil {
		t.Fatalf("ReadManifest() error = %v", err)
	}
	wantManifest := []string{"", "UI", "Main", "", "Core", "Init"}
	if !reflect.DeepEqual(manifest, wantManifest) {
		t.Errorf("manifest = %q, want %q", manifest, wantManifest)
	}

	if got := testutil.MustReadFile(t, filepath.Join(p.Root(), "UI", "Main.rb")); got != "puts 1" {
		t.Errorf("UI/Main.rb = %q, want %q", got, "puts 1")
	}
	if got := testutil.MustReadFile(t, filepath.Join(p.Root(), "Core", "Init.rb")); got != "puts 2" {
		t.Errorf("Core/Init.rb = %q, want %q", got, "puts 2")
	}

	stream, err := p.Import(context.Background())
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	testutil.AssertStreamsEqual(t, stream, testutil.SampleStream(t, 42))
}

func TestExport_RootScriptsLandInTreeRoot(t *testing.T) {
	t.Parallel()

	p := newProjector(t, 0)
	stream := testutil.BuildStream(t, 0,
		testutil.Script{Name: "▼ Modules"},
		testutil.Script{Name: "Vocab", Text: "module Vocab\nend\n"},
	)
	if _, err := p.Export(context.Background(), stream); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	if got := testutil.MustReadFile(t, filepath.Join(p.Root(), "Vocab.rb")); got != "module Vocab\nend\n" {
		t.Errorf("Vocab.rb = %q", got)
	}
	if got := testutil.MustReadFile(t, filepath.Join(p.Root(), "▼ Modules.rb")); got != "" {
		t.Errorf("▼ Modules.rb = %q, want empty", got)
	}
}

func TestExport_ConsecutiveSentinels(t *testing.T) {
	t.Parallel()

	p := newProjector(t, 3)
	stream := testutil.BuildStream(t, 3,
		testutil.Script{Name: "A", Text: "a"},
		testutil.Script{Name: ""},
		testutil.Script{Name: ""},
		testutil.Script{Name: "Label"},
		testutil.Script{Name: "B", Text: "b"},
	)
	res, err := p.Export(context.Background(), stream)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if res.Folders != 1 || res.Sentinels != 2 {
		t.Errorf("Export() result = %+v, want 1 folder and 2 sentinels", res)
	}

	entries, err := os.ReadDir(p.Root())
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e.Name())
		}
	}
	if !reflect.DeepEqual(dirs, []string{"Label"}) {
		t.Errorf("directories = %q, want only Label", dirs)
	}

	manifest := testutil.MustReadFile(t, p.ManifestPath())
	if manifest != "A\n\n\nLabel\nB\n" {
		t.Errorf("manifest = %q", manifest)
	}

	back, err := p.Import(context.Background())
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	testutil.AssertStreamsEqual(t, back, stream)
}

func TestExport_IsIdempotent(t *testing.T) {
	t.Parallel()

	p := newProjector(t, 42)
	stream := testutil.SampleStream(t, 42)
	for range 2 {
		if _, err := p.Export(context.Background(), stream); err != nil {
			t.Fatalf("Export() error = %v", err)
		}
	}

	// Edited content is overwritten, not appended to.
	testutil.MustWriteFile(t, filepath.Join(p.Root(), "UI", "Main.rb"), "edited and much longer than before")
	if _, err := p.Export(context.Background(), stream); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if got := testutil.MustReadFile(t, filepath.Join(p.Root(), "UI", "Main.rb")); got != "puts 1" {
		t.Errorf("UI/Main.rb = %q, want %q", got, "puts 1")
	}
}

func TestExport_CorruptBody(t *testing.T) {
	t.Parallel()

	p := newProjector(t, 0)
	stream := testutil.BuildStream(t, 0, testutil.Script{Name: "Good", Text: "ok"})
	stream = append(stream, container.Record{Name: "Bad", Body: []byte("not zlib")})

	_, err := p.Export(context.Background(), stream)
	if !errors.Is(err, container.ErrCorruptBody) {
		t.Fatalf("Export() error = %v, want ErrCorruptBody", err)
	}
	var cbe *container.CorruptBodyError
	if !errors.As(err, &cbe) || cbe.Index != 1 || cbe.Name != "Bad" {
		t.Errorf("error = %v, want record 1 named Bad", err)
	}
}

func TestExport_CorruptStructuralBodyIsLogged(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	p := projector.New(projector.Options{
		Root:   filepath.Join(t.TempDir(), "Game-Scripts"),
		Logger: log.NewWithOptions(&logs, log.Options{Level: log.WarnLevel}),
	})
	stream := container.Stream{
		{Name: "", Body: []byte("not zlib")},
		{Name: "Lib", Body: []byte("not zlib either")},
	}
	stream = append(stream, testutil.BuildStream(t, 0, testutil.Script{Name: "Util", Text: "puts 3"})...)

	res, err := p.Export(context.Background(), stream)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if res != (projector.Result{Sentinels: 1, Folders: 1, Scripts: 1}) {
		t.Errorf("Export() result = %+v", res)
	}
	if got := testutil.MustReadFile(t, filepath.Join(p.Root(), "Lib", "Util.rb")); got != "puts 3" {
		t.Errorf("Lib/Util.rb = %q", got)
	}
	if n := strings.Count(logs.String(), "unreadable"); n != 2 {
		t.Errorf("got %d unreadable-body warnings, want 2; log:\n%s", n, logs.String())
	}
}

func TestRoundTrip_FirstNameStartsWithBOM(t *testing.T) {
	t.Parallel()

	p := newProjector(t, 0)
	stream := testutil.BuildStream(t, 0,
		testutil.Script{Name: "\ufeffTitle", Text: "puts 1"},
		testutil.Script{Name: "Main", Text: "puts 2"},
	)
	if _, err := p.Export(context.Background(), stream); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	got, err := p.Import(context.Background())
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	testutil.AssertStreamsEqual(t, got, stream)
}

func TestExport_RejectsUnrepresentableNames(t *testing.T) {
	t.Parallel()

	p := newProjector(t, 0)
	stream := testutil.BuildStream(t, 0, testutil.Script{Name: "two\nlines", Text: "x"})

	_, err := p.Export(context.Background(), stream)
	if !errors.Is(err, projector.ErrInvalidName) {
		t.Fatalf("Export() error = %v, want ErrInvalidName", err)
	}
	testutil.AssertNotExist(t, p.Root())
}

func TestPlan_Duplicates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		names   []string
		wantErr bool
	}{
		{"same script twice in root", []string{"A", "A"}, true},
		{"case-only difference", []string{"Main", "main"}, true},
		{"same script in different folders", []string{"", "X", "A", "", "Y", "A"}, false},
		{"repeated folder label", []string{"", "X", "A", "", "X", "B"}, false},
		{"repeated folder label with same script", []string{"", "X", "A", "", "X", "A"}, true},
		{"folder named like a script file", []string{"A", "", "A.rb"}, true},
		{"folder named like the manifest", []string{"", "manifest.txt"}, true},
		{"script and folder share a stem", []string{"A", "", "A"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := projector.New(projector.Options{Root: t.TempDir()})
			_, err := p.Plan(tt.names)
			if tt.wantErr && !errors.Is(err, projector.ErrDuplicateScript) {
				t.Errorf("Plan(%q) error = %v, want ErrDuplicateScript", tt.names, err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Plan(%q) error = %v, want nil", tt.names, err)
			}
		})
	}
}

func TestExport_EscapesUnsafeNames(t *testing.T) {
	t.Parallel()

	p := newProjector(t, 0)
	stream := testutil.BuildStream(t, 0,
		testutil.Script{Name: ""},
		testutil.Script{Name: "Battle/Core"},
		testutil.Script{Name: "AI: targets?", Text: "pick"},
	)
	if _, err := p.Export(context.Background(), stream); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	path := filepath.Join(p.Root(), "Battle%2FCore", "AI%3A targets%3F.rb")
	if got := testutil.MustReadFile(t, path); got != "pick" {
		t.Errorf("%s = %q, want %q", path, got, "pick")
	}

	back, err := p.Import(context.Background())
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	testutil.AssertStreamsEqual(t, back, stream)
}

func TestExport_WarnsOnDroppedStructuralContent(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	p := projector.New(projector.Options{
		Root:   t.TempDir(),
		Logger: log.NewWithOptions(&logs, log.Options{Level: log.WarnLevel}),
	})
	stream := testutil.BuildStream(t, 0,
		testutil.Script{Name: ""},
		testutil.Script{Name: "Notes", Text: "# a folder label with text"},
	)
	if _, err := p.Export(context.Background(), stream); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if !strings.Contains(logs.String(), "not exported") {
		t.Errorf("expected a warning, got log %q", logs.String())
	}
}

func TestExport_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newProjector(t, 0).Export(ctx, testutil.SampleStream(t, 0))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Export() error = %v, want context.Canceled", err)
	}
}

func TestImport_MissingManifest(t *testing.T) {
	t.Parallel()

	p := newProjector(t, 0)
	testutil.MustMkdirAll(t, p.Root(), 0o755)

	_, err := p.Import(context.Background())
	var mme *projector.MissingManifestError
	if !errors.As(err, &mme) {
		t.Fatalf("Import() error = %v, want *MissingManifestError", err)
	}
	if mme.Path != p.ManifestPath() {
		t.Errorf("Path = %q, want %q", mme.Path, p.ManifestPath())
	}
}

func TestImport_MissingScriptFile(t *testing.T) {
	t.Parallel()

	p := newProjector(t, 0)
	testutil.MustWriteFile(t, p.ManifestPath(), "\nBar\nfoo\n")
	testutil.MustMkdirAll(t, filepath.Join(p.Root(), "Bar"), 0o755)

	_, err := p.Import(context.Background())
	if !errors.Is(err, projector.ErrMissingScriptFile) {
		t.Fatalf("Import() error = %v, want ErrMissingScriptFile", err)
	}
	var msf *projector.MissingScriptFileError
	if !errors.As(err, &msf) {
		t.Fatalf("error %T is not *MissingScriptFileError", err)
	}
	if msf.Folder != "Bar" || msf.Name != "foo" || msf.Path != filepath.Join(p.Root(), "Bar", "foo.rb") {
		t.Errorf("MissingScriptFileError = %+v", msf)
	}
}

func TestImport_UsesConfiguredTagAndExtension(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	p := projector.New(projector.Options{Root: root, Tag: 9001, ScriptExt: ".txt", ManifestFile: "order.lst"})
	testutil.MustWriteFile(t, filepath.Join(root, "order.lst"), "Hello\n")
	testutil.MustWriteFile(t, filepath.Join(root, "Hello.txt"), "p :hi")

	got, err := p.Import(context.Background())
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	testutil.AssertStreamsEqual(t, got, testutil.BuildStream(t, 9001, testutil.Script{Name: "Hello", Text: "p :hi"}))
}

func TestImport_PreservesManifestOrderOverDirectoryOrder(t *testing.T) {
	t.Parallel()

	p := newProjector(t, 1)
	testutil.MustWriteFile(t, p.ManifestPath(), "Zeta\nAlpha\n\nB\nY\nX\n")
	testutil.MustWriteFile(t, filepath.Join(p.Root(), "Zeta.rb"), "z")
	testutil.MustWriteFile(t, filepath.Join(p.Root(), "Alpha.rb"), "a")
	testutil.MustWriteFile(t, filepath.Join(p.Root(), "B", "Y.rb"), "y")
	testutil.MustWriteFile(t, filepath.Join(p.Root(), "B", "X.rb"), "x")

	got, err := p.Import(context.Background())
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	want := []string{"Zeta", "Alpha", "", "B", "Y", "X"}
	if !reflect.DeepEqual(got.Names(), want) {
		t.Errorf("Import() names = %q, want %q", got.Names(), want)
	}
}

func TestRoundTrip_RandomStreams(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(7))
	alphabet := []string{"Game_", "Scene_", "Window_", "Sprite_", "Ext", "▼ ", "Über"}

	for iter := range 25 {
		var scripts []testutil.Script
		n := rng.Intn(20)
		for i := range n {
			if rng.Intn(4) == 0 {
				scripts = append(scripts, testutil.Script{})
				continue
			}
			name := alphabet[rng.Intn(len(alphabet))] + string(rune('A'+i))
			text := strings.Repeat("x = 1\n", rng.Intn(5))
			scripts = append(scripts, testutil.Script{Name: name, Text: text})
		}

		stream := testutil.BuildStream(t, 42, scripts...)
		p := newProjector(t, 42)
		if _, err := p.Export(context.Background(), stream); err != nil {
			t.Fatalf("iteration %d: Export(%q) error = %v", iter, stream.Names(), err)
		}
		back, err := p.Import(context.Background())
		if err != nil {
			t.Fatalf("iteration %d: Import() error = %v", iter, err)
		}
		// Structural records always come back empty.
		want := make(container.Stream, len(stream))
		for i, e := range projector.Classify(stream.Names()) {
			want[i] = stream[i]
			if e.Kind != projector.KindScript {
				want[i].Body = testutil.MustDeflate(t, "")
			}
		}
		testutil.AssertStreamsEqual(t, back, want)
	}
}

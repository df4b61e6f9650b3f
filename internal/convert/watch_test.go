// SPDX-License-Identifier: MPL-2.0

package convert

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/leaf2fire/RPG-Maker-Scripts/internal/config"
	"github.com/leaf2fire/RPG-Maker-Scripts/internal/container"
	"github.com/leaf2fire/RPG-Maker-Scripts/internal/issue"
	"github.com/leaf2fire/RPG-Maker-Scripts/internal/testutil"
)

type importResult struct {
	sum Summary
	err error
}

func TestService_WatchImportsEdits(t *testing.T) {
	t.Parallel()

	svc := newService(t, nil)
	l := svc.Layout()
	testutil.MustWriteContainer(t, l.DataFile, testutil.SampleStream(t, 42))
	if _, err := svc.Export(context.Background()); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	results := make(chan importResult, 8)
	done := make(chan error, 1)
	go func() {
		done <- svc.Watch(ctx, 50*time.Millisecond, func(sum Summary, err error) {
			results <- importResult{sum, err}
		})
	}()

	// Editing before the watcher registered the tree would be missed.
	time.Sleep(200 * time.Millisecond)
	testutil.MustWriteFile(t, filepath.Join(l.ScriptsDir, "UI", "Main.rb"), "puts :watched")

	select {
	case r := <-results:
		if r.err != nil {
			t.Fatalf("import error = %v", r.err)
		}
		if r.sum.Mode != ModeImport || r.sum.Scripts != 2 {
			t.Errorf("summary = %+v", r.sum)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no import after editing a script")
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	stream, err := container.ReadFile(l.DataFile)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	body, err := container.Inflate(stream[2].Body)
	if err != nil {
		t.Fatalf("Inflate() error = %v", err)
	}
	if string(body) != "puts :watched" {
		t.Errorf("UI/Main body = %q", body)
	}
}

func TestService_WatchMissingFolder(t *testing.T) {
	t.Parallel()

	svc := newService(t, nil)
	err := svc.Watch(context.Background(), 0, nil)
	assertIssue(t, err, issue.WatchFailedId)
}

func TestService_WatchPatterns(t *testing.T) {
	t.Parallel()

	svc := newService(t, func(c *config.Config) {
		c.ScriptExt = ".r[b]"
		c.ManifestFile = "order{1}.txt"
	})
	got := svc.watchPatterns()
	want := []string{`**/*.r\[b\]`, `order\{1\}.txt`}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("watchPatterns() = %q, want %q", got, want)
	}
}

// SPDX-License-Identifier: MPL-2.0

package projector

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/leaf2fire/RPG-Maker-Scripts/internal/container"

	"github.com/charmbracelet/log"
)

// DefaultScriptExt is the extension given to exported script files.
const DefaultScriptExt = ".rb"

type (
	// Options configures a Projector. Root is required; the other fields
	// fall back to package defaults when zero.
	Options struct {
		// Root is the folder tree root directory.
		Root string
		// ManifestFile is the manifest file name inside Root.
		ManifestFile string
		// ScriptExt is appended to every script file name.
		ScriptExt string
		// Tag is written on every record produced by Import.
		Tag int64
		// Logger receives warnings about content the tree cannot hold.
		Logger *log.Logger
	}

	// Projector maps a record stream onto a folder tree and back.
	// It holds no state between calls.
	Projector struct {
		root     string
		manifest string
		ext      string
		tag      int64
		logger   *log.Logger
	}

	// Result summarizes an export.
	Result struct {
		Sentinels int
		Folders   int
		Scripts   int
	}

	// pathOwner records which entry first claimed a tree path.
	pathOwner struct {
		index int
		kind  Kind
	}
)

// New creates a Projector for the given options.
func New(opts Options) *Projector {
	p := &Projector{
		root:     opts.Root,
		manifest: opts.ManifestFile,
		ext:      opts.ScriptExt,
		tag:      opts.Tag,
		logger:   opts.Logger,
	}
	if p.manifest == "" {
		p.manifest = DefaultManifestFile
	}
	if p.ext == "" {
		p.ext = DefaultScriptExt
	}
	if p.logger == nil {
		p.logger = log.New(io.Discard)
	}
	return p
}

// Root returns the folder tree root.
func (p *Projector) Root() string { return p.root }

// ManifestPath returns the manifest location.
func (p *Projector) ManifestPath() string { return filepath.Join(p.root, p.manifest) }

// FolderPath returns the directory a folder label maps to.
func (p *Projector) FolderPath(label string) string {
	return filepath.Join(p.root, FileName(label))
}

// ScriptPath returns the file a script entry maps to.
func (p *Projector) ScriptPath(e Entry) string {
	if e.Folder == "" {
		return filepath.Join(p.root, FileName(e.Name)+p.ext)
	}
	return filepath.Join(p.FolderPath(e.Folder), FileName(e.Name)+p.ext)
}

// Plan validates names and classifies them without touching the filesystem.
// It rejects names the manifest cannot represent and records that would
// overwrite each other in the tree.
func (p *Projector) Plan(names []string) ([]Entry, error) {
	for i, name := range names {
		if strings.ContainsAny(name, "\r\n") {
			return nil, &InvalidNameError{Index: i, Name: name}
		}
	}

	entries := Classify(names)
	owners := map[string]pathOwner{
		pathKey(p.ManifestPath()): {index: -1, kind: KindScript},
	}
	for i, e := range entries {
		var path string
		switch e.Kind {
		case KindSentinel:
			continue
		case KindFolder:
			path = p.FolderPath(e.Name)
		case KindScript:
			path = p.ScriptPath(e)
		}

		key := pathKey(path)
		owner, taken := owners[key]
		if !taken {
			owners[key] = pathOwner{index: i, kind: e.Kind}
			continue
		}
		// A folder label may repeat; its scripts land in the same directory.
		if owner.kind == KindFolder && e.Kind == KindFolder {
			continue
		}
		return nil, &DuplicateScriptError{Path: path, FirstIndex: owner.index, Index: i}
	}
	return entries, nil
}

// pathKey folds case so collisions on case-insensitive filesystems are
// caught on every platform.
func pathKey(path string) string {
	return strings.ToLower(filepath.Clean(path))
}

// Export writes the manifest, then every folder and script of stream under
// the tree root. Existing directories are reused and existing files are
// overwritten. On failure, files already written are left in place.
func (p *Projector) Export(ctx context.Context, stream container.Stream) (Result, error) {
	var res Result
	names := stream.Names()
	entries, err := p.Plan(names)
	if err != nil {
		return res, err
	}

	if err := os.MkdirAll(p.root, 0o755); err != nil {
		return res, fmt.Errorf("create scripts folder: %w", err)
	}
	if err := WriteManifest(p.ManifestPath(), names); err != nil {
		return res, err
	}

	for i, e := range entries {
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("export canceled: %w", err)
		}

		switch e.Kind {
		case KindSentinel:
			res.Sentinels++
			p.warnDropped(i, e, stream[i])
		case KindFolder:
			if err := os.MkdirAll(p.FolderPath(e.Name), 0o755); err != nil {
				return res, fmt.Errorf("create folder %q: %w", e.Name, err)
			}
			res.Folders++
			p.warnDropped(i, e, stream[i])
			p.logger.Debug("folder", "name", e.Name)
		case KindScript:
			content, err := container.InflateRecord(i, stream[i])
			if err != nil {
				return res, err
			}
			path := p.ScriptPath(e)
			if err := os.WriteFile(path, content, 0o644); err != nil {
				return res, fmt.Errorf("write script %q: %w", e.Name, err)
			}
			res.Scripts++
			p.logger.Debug("script", "name", e.Name, "folder", e.Folder, "bytes", len(content))
		}
	}
	return res, nil
}

// warnDropped reports structural records that carried content. The tree has
// no place for it, and import writes those records with empty bodies, so an
// unreadable body is only logged.
func (p *Projector) warnDropped(i int, e Entry, rec container.Record) {
	content, err := container.Inflate(rec.Body)
	if err != nil {
		p.logger.Warn("structural record body unreadable, not exported",
			"index", i, "kind", e.Kind.String(), "name", e.Name, "err", err)
		return
	}
	if len(content) == 0 {
		return
	}
	p.logger.Warn("structural record content not exported",
		"index", i, "kind", e.Kind.String(), "name", e.Name, "bytes", len(content))
}

// Import reads the manifest and the tree and rebuilds the record stream,
// one record per manifest line. It never writes to the filesystem.
func (p *Projector) Import(ctx context.Context) (container.Stream, error) {
	names, err := ReadManifest(p.ManifestPath())
	if err != nil {
		return nil, err
	}

	empty, err := container.Deflate(nil)
	if err != nil {
		return nil, err
	}

	entries := Classify(names)
	stream := make(container.Stream, 0, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("import canceled: %w", err)
		}

		rec := container.Record{Tag: p.tag, Name: e.Name, Body: empty}
		if e.Kind == KindScript {
			body, err := p.readScript(e)
			if err != nil {
				return nil, err
			}
			rec.Body = body
		}
		stream = append(stream, rec)
	}
	return stream, nil
}

func (p *Projector) readScript(e Entry) ([]byte, error) {
	path := p.ScriptPath(e)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &MissingScriptFileError{Folder: e.Folder, Name: e.Name, Path: path}
	}
	if err != nil {
		return nil, fmt.Errorf("read script %q: %w", e.Name, err)
	}

	body, err := container.Deflate(data)
	if err != nil {
		return nil, fmt.Errorf("compress script %q: %w", e.Name, err)
	}
	p.logger.Debug("script", "name", e.Name, "folder", e.Folder, "bytes", len(data))
	return body, nil
}

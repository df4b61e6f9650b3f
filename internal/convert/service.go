// SPDX-License-Identifier: MPL-2.0

package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/leaf2fire/RPG-Maker-Scripts/internal/config"
	"github.com/leaf2fire/RPG-Maker-Scripts/internal/container"
	"github.com/leaf2fire/RPG-Maker-Scripts/internal/projector"

	"github.com/charmbracelet/log"
)

const (
	// ModeExport writes the folder tree from the container.
	ModeExport Mode = iota + 1
	// ModeImport rebuilds the container from the folder tree.
	ModeImport
)

type (
	// Mode is the direction of a conversion.
	Mode int

	// Options configures a Service.
	Options struct {
		Layout config.Layout
		// Tag is written on every imported record.
		Tag int64
		// Backup keeps the previous container on import.
		Backup bool
		Logger *log.Logger
	}

	// Service converts between the container and the folder tree of one project.
	Service struct {
		layout    config.Layout
		backup    bool
		logger    *log.Logger
		projector *projector.Projector
	}

	// Summary describes a finished conversion.
	Summary struct {
		Mode       Mode
		DataFile   string
		ScriptsDir string
		Records    int
		Folders    int
		Scripts    int
		Sentinels  int
	}
)

// String returns the lowercase mode name.
func (m Mode) String() string {
	switch m {
	case ModeExport:
		return "export"
	case ModeImport:
		return "import"
	default:
		return "unknown"
	}
}

// OptionsFromConfig builds service options from a loaded configuration and
// its resolved layout.
func OptionsFromConfig(cfg *config.Config, layout config.Layout, logger *log.Logger) Options {
	return Options{
		Layout: layout,
		Tag:    int64(cfg.Tag),
		Backup: cfg.Backup,
		Logger: logger,
	}
}

// New creates a Service.
func New(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Service{
		layout: opts.Layout,
		backup: opts.Backup,
		logger: logger,
		projector: projector.New(projector.Options{
			Root:         opts.Layout.ScriptsDir,
			ManifestFile: opts.Layout.ManifestFile,
			ScriptExt:    opts.Layout.ScriptExt,
			Tag:          opts.Tag,
			Logger:       logger,
		}),
	}
}

// Layout returns the paths the service works with.
func (s *Service) Layout() config.Layout { return s.layout }

// DetectMode picks export when the scripts folder does not exist yet and
// import otherwise.
func (s *Service) DetectMode() (Mode, error) {
	info, err := os.Stat(s.layout.ScriptsDir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return ModeExport, nil
	case err != nil:
		return 0, wrapError("inspect scripts folder", s.layout.ScriptsDir, err)
	case !info.IsDir():
		return 0, wrapError("inspect scripts folder", s.layout.ScriptsDir,
			fmt.Errorf("%s is not a directory", s.layout.ScriptsDir))
	}
	return ModeImport, nil
}

// Sync runs the conversion DetectMode selects.
func (s *Service) Sync(ctx context.Context) (Summary, error) {
	mode, err := s.DetectMode()
	if err != nil {
		return Summary{}, err
	}
	s.logger.Debug("mode selected", "mode", mode, "scripts", s.layout.ScriptsDir)
	if mode == ModeExport {
		return s.Export(ctx)
	}
	return s.Import(ctx)
}

// Export writes the manifest and folder tree from the container.
func (s *Service) Export(ctx context.Context) (Summary, error) {
	sum := s.summary(ModeExport)

	stream, err := s.read()
	if err != nil {
		return sum, err
	}
	sum.Records = len(stream)

	s.logger.Debug("exporting", "records", len(stream), "to", s.layout.ScriptsDir)
	res, err := s.projector.Export(ctx, stream)
	sum.Folders, sum.Scripts, sum.Sentinels = res.Folders, res.Scripts, res.Sentinels
	if err != nil {
		return sum, wrapError("export scripts", s.layout.ScriptsDir, err)
	}

	s.logger.Info("exported", "scripts", sum.Scripts, "folders", sum.Folders, "to", s.layout.ScriptsDir)
	return sum, nil
}

// Import rebuilds the container from the manifest and folder tree. The
// container is only replaced once every script has been read.
func (s *Service) Import(ctx context.Context) (Summary, error) {
	sum := s.summary(ModeImport)

	s.logger.Debug("importing", "from", s.layout.ScriptsDir)
	stream, err := s.projector.Import(ctx)
	if err != nil {
		return sum, wrapError("import scripts", s.layout.ScriptsDir, err)
	}
	sum.Records = len(stream)
	countEntries(&sum, projector.Classify(stream.Names()))

	if err := container.WriteFile(ctx, s.layout.DataFile, stream, container.WriteOptions{Backup: s.backup}); err != nil {
		return sum, wrapError("write scripts", s.layout.DataFile, err)
	}

	s.logger.Info("imported", "scripts", sum.Scripts, "folders", sum.Folders, "into", s.layout.DataFile)
	return sum, nil
}

// List decodes the container and classifies its records without writing.
func (s *Service) List(ctx context.Context) ([]projector.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	stream, err := s.read()
	if err != nil {
		return nil, err
	}
	return projector.Classify(stream.Names()), nil
}

// ScriptPath returns where an entry is exported to.
func (s *Service) ScriptPath(e projector.Entry) string {
	return s.projector.ScriptPath(e)
}

func (s *Service) read() (container.Stream, error) {
	stream, err := container.ReadFile(s.layout.DataFile)
	if err != nil {
		return nil, wrapError("read scripts", s.layout.DataFile, err)
	}
	return stream, nil
}

func (s *Service) summary(m Mode) Summary {
	return Summary{Mode: m, DataFile: s.layout.DataFile, ScriptsDir: s.layout.ScriptsDir}
}

func countEntries(sum *Summary, entries []projector.Entry) {
	for _, e := range entries {
		switch e.Kind {
		case projector.KindSentinel:
			sum.Sentinels++
		case projector.KindFolder:
			sum.Folders++
		case projector.KindScript:
			sum.Scripts++
		}
	}
}

package studioicons

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jsvensson/studioicons/internal/color"
	"github.com/jsvensson/studioicons/internal/jsonmap"
	"github.com/jsvensson/studioicons/internal/manifest"
	"github.com/jsvensson/studioicons/internal/theme"
	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"
)

// DefaultManifestName is the manifest file written at the output root.
const DefaultManifestName = "studio-icons.json"

// Builder generates the themed icon set described by Settings.
type Builder struct {
	Settings     *Settings
	SourceDir    string // directory holding the source SVG files
	OutputDir    string // removed by Clean, created by Build
	ManifestName string // defaults to DefaultManifestName
	Workers      int    // icons processed concurrently; below 2 means sequential
	Logger       commonlog.Logger
}

// Run performs Clean followed by Build.
func (b *Builder) Run(ctx context.Context) error {
	if err := b.Clean(); err != nil {
		return err
	}
	return b.Build(ctx)
}

// Clean removes the output directory and everything in it. A missing
// directory is not an error.
func (b *Builder) Clean() error {
	if err := os.RemoveAll(b.OutputDir); err != nil {
		return fmt.Errorf("%w: removing %s: %w", ErrDestination, b.OutputDir, err)
	}
	b.logger().Debugf("removed %s", b.OutputDir)
	return nil
}

// Build creates the output directory, writes a light, dark and contrast
// recoloring of every catalog icon and then the manifest. The first failure
// stops the build; files written up to that point are left in place.
func (b *Builder) Build(ctx context.Context) error {
	if b.Settings == nil {
		return fmt.Errorf("%w: no settings loaded", ErrSettings)
	}

	imagesDir := filepath.Join(b.OutputDir, manifest.ImagesDir)
	if err := os.Mkdir(b.OutputDir, 0o755); err != nil {
		return fmt.Errorf("%w: creating output directory: %w", ErrDestination, err)
	}
	if err := os.Mkdir(imagesDir, 0o755); err != nil {
		return fmt.Errorf("%w: creating images directory: %w", ErrDestination, err)
	}

	icons := b.Settings.Icons()
	palette := b.Settings.Palette()

	kinds := theme.Kinds()
	recolorers := make([]*color.Recolorer, len(kinds))
	for i, k := range kinds {
		recolorers[i] = color.NewRecolorer(palette, b.Settings.Style(k).Colors)
	}

	// Each worker fills its own slot; definitions are merged afterwards in
	// catalog order.
	written := make([][]string, len(icons))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, b.Workers))
	for i, icon := range icons {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			names, err := b.writeIcon(icon, imagesDir, recolorers)
			if err != nil {
				return err
			}
			written[i] = names
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	defs := jsonmap.New[manifest.IconDefinition]()
	for _, names := range written {
		for _, name := range names {
			defs.Set(name, manifest.DefinitionFor(name))
		}
	}

	m := manifest.New(defs,
		theme.Assemble(icons, theme.Light, b.Settings.Style(theme.Light)),
		theme.Assemble(icons, theme.Dark, b.Settings.Style(theme.Dark)),
		theme.Assemble(icons, theme.Contrast, b.Settings.Style(theme.Contrast)),
	)

	data, err := m.Encode()
	if err != nil {
		return err
	}

	manifestPath := filepath.Join(b.OutputDir, b.manifestName())
	if err := os.WriteFile(manifestPath, data, 0o644); err != nil {
		return fmt.Errorf("%w: writing manifest: %w", ErrDestination, err)
	}

	b.logger().Infof("generated %d icons (%d files) and %s", len(icons), defs.Len(), manifestPath)
	return nil
}

// writeIcon reads one source image and writes its three variants. It
// returns the generated file names in variant order.
func (b *Builder) writeIcon(icon theme.Entry, imagesDir string, recolorers []*color.Recolorer) ([]string, error) {
	srcPath := filepath.Join(b.SourceDir, filepath.FromSlash(icon.IconPath))
	content, err := os.ReadFile(srcPath)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrSourceAsset, srcPath, err)
	}

	kinds := theme.Kinds()
	names := make([]string, 0, len(kinds))
	for i, k := range kinds {
		name := k.FileName(icon.IconPath)
		destPath := filepath.Join(imagesDir, filepath.FromSlash(name))

		if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
			return nil, fmt.Errorf("%w: creating directory for %s: %w", ErrDestination, name, err)
		}
		if err := os.WriteFile(destPath, []byte(recolorers[i].Recolor(string(content))), 0o644); err != nil {
			return nil, fmt.Errorf("%w: writing %s: %w", ErrDestination, destPath, err)
		}
		names = append(names, name)
	}

	b.logger().Debugf("recolored %s", icon.IconPath)
	return names, nil
}

func (b *Builder) manifestName() string {
	if b.ManifestName == "" {
		return DefaultManifestName
	}
	return b.ManifestName
}

func (b *Builder) logger() commonlog.Logger {
	if b.Logger == nil {
		return commonlog.GetLogger("studioicons.builder")
	}
	return b.Logger
}

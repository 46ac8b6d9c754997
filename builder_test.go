package studioicons

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jsvensson/studioicons/internal/color"
	"github.com/jsvensson/studioicons/internal/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jsSource = `<svg fill="#1E1E1E" stroke="#FFFFFF"/>`

func testSettings(icons ...theme.Entry) *Settings {
	if len(icons) == 0 {
		icons = []theme.Entry{{IconPath: "js.svg", FileExtensions: []string{"js"}}}
	}
	return NewSettings(
		color.Palette{"background": "1E1E1E", "foreground": "FFFFFF"},
		map[theme.Kind]theme.Style{
			theme.Light: {
				Colors:             color.Palette{"background": "F3F3F3"},
				Folder:             "folder.svg",
				FolderExpanded:     "folder_open.svg",
				RootFolder:         "root.svg",
				RootFolderExpanded: "root_open.svg",
				File:               "file.svg",
			},
			theme.Dark: {
				Colors: color.Palette{"background": "252526", "foreground": "CCCCCC"},
				File:   "file_inverse.svg",
			},
			theme.Contrast: {
				Colors: color.Palette{"background": "000000"},
				File:   "file_contrast.svg",
			},
		},
		icons,
	)
}

func setupSourceDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

type manifestDoc struct {
	IconDefinitions map[string]struct {
		IconPath string `json:"iconPath"`
	} `json:"iconDefinitions"`
	Light        mappingDoc `json:"light"`
	HighContrast mappingDoc `json:"highContrast"`
	mappingDoc
}

type mappingDoc struct {
	FileExtensions      map[string]string `json:"fileExtensions"`
	FileNames           map[string]string `json:"fileNames"`
	FolderNames         map[string]string `json:"folderNames"`
	FolderNamesExpanded map[string]string `json:"folderNamesExpanded"`
	Folder              *string           `json:"folder"`
	FolderExpanded      *string           `json:"folderExpanded"`
	RootFolder          *string           `json:"rootFolder"`
	RootFolderExpanded  *string           `json:"rootFolderExpanded"`
	File                *string           `json:"file"`
}

func (m mappingDoc) complete() bool {
	return m.FileExtensions != nil && m.FileNames != nil && m.FolderNames != nil &&
		m.FolderNamesExpanded != nil && m.Folder != nil && m.FolderExpanded != nil &&
		m.RootFolder != nil && m.RootFolderExpanded != nil && m.File != nil
}

func readManifest(t *testing.T, outDir string) (manifestDoc, string) {
	t.Helper()
	raw := readFile(t, filepath.Join(outDir, DefaultManifestName))
	var doc manifestDoc
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	return doc, raw
}

func TestBuild_Scenario(t *testing.T) {
	src := setupSourceDir(t, map[string]string{"js.svg": jsSource})
	out := filepath.Join(t.TempDir(), "fileicons")

	b := &Builder{Settings: testSettings(), SourceDir: src, OutputDir: out}
	require.NoError(t, b.Build(context.Background()))

	images := filepath.Join(out, "images")
	assert.Equal(t, `<svg fill="#F3F3F3" stroke="#FFFFFF"/>`, readFile(t, filepath.Join(images, "js.svg")))
	assert.Equal(t, `<svg fill="#252526" stroke="#CCCCCC"/>`, readFile(t, filepath.Join(images, "js_inverse.svg")))
	assert.Equal(t, `<svg fill="#000000" stroke="#FFFFFF"/>`, readFile(t, filepath.Join(images, "js_contrast.svg")))

	doc, _ := readManifest(t, out)
	assert.Equal(t, "./images/js.svg", doc.IconDefinitions["js.svg"].IconPath)
	assert.Equal(t, "./images/js_inverse.svg", doc.IconDefinitions["js_inverse.svg"].IconPath)
	assert.Equal(t, "./images/js_contrast.svg", doc.IconDefinitions["js_contrast.svg"].IconPath)
	assert.Equal(t, map[string]string{"js": "js.svg"}, doc.Light.FileExtensions)
	assert.Equal(t, map[string]string{"js": "js_inverse.svg"}, doc.FileExtensions)
	assert.Equal(t, map[string]string{"js": "js_contrast.svg"}, doc.HighContrast.FileExtensions)
	assert.Equal(t, "folder_open.svg", *doc.Light.FolderExpanded)
	assert.Equal(t, "file_inverse.svg", *doc.File)
}

func TestBuild_ManifestCompleteness(t *testing.T) {
	icons := []theme.Entry{
		{IconPath: "js.svg", FileExtensions: []string{"js"}},
		{IconPath: "npm.svg", FileNames: []string{"package.json"}},
		{IconPath: "folder_src.svg", FolderNames: []string{"src"}, FolderNamesExpanded: []string{"src"}},
		{IconPath: "plain.svg"},
	}
	files := make(map[string]string)
	for _, icon := range icons {
		files[icon.IconPath] = jsSource
	}
	src := setupSourceDir(t, files)
	out := filepath.Join(t.TempDir(), "fileicons")

	b := &Builder{Settings: testSettings(icons...), SourceDir: src, OutputDir: out}
	require.NoError(t, b.Build(context.Background()))

	doc, _ := readManifest(t, out)
	assert.Len(t, doc.IconDefinitions, 3*len(icons))
	assert.True(t, doc.Light.complete(), "light mapping incomplete")
	assert.True(t, doc.HighContrast.complete(), "highContrast mapping incomplete")
	assert.True(t, doc.mappingDoc.complete(), "top-level dark mapping incomplete")

	for _, icon := range icons {
		for _, k := range theme.Kinds() {
			_, err := os.Stat(filepath.Join(out, "images", k.FileName(icon.IconPath)))
			assert.NoError(t, err, "%s %s", k, icon.IconPath)
		}
	}
}

func TestBuild_DefinitionOrder(t *testing.T) {
	icons := []theme.Entry{
		{IconPath: "zeta.svg", FileExtensions: []string{"z"}},
		{IconPath: "alpha.svg", FileExtensions: []string{"a"}},
	}
	src := setupSourceDir(t, map[string]string{"zeta.svg": jsSource, "alpha.svg": jsSource})
	out := filepath.Join(t.TempDir(), "fileicons")

	b := &Builder{Settings: testSettings(icons...), SourceDir: src, OutputDir: out}
	require.NoError(t, b.Build(context.Background()))

	_, raw := readManifest(t, out)
	order := []string{`"zeta.svg"`, `"zeta_inverse.svg"`, `"zeta_contrast.svg"`, `"alpha.svg"`, `"alpha_inverse.svg"`, `"alpha_contrast.svg"`}
	last := -1
	for _, key := range order {
		idx := strings.Index(raw, key)
		require.GreaterOrEqual(t, idx, 0, "missing %s", key)
		assert.Greater(t, idx, last, "%s out of order", key)
		last = idx
	}
}

func TestBuild_ConcurrentMatchesSequential(t *testing.T) {
	var icons []theme.Entry
	files := make(map[string]string)
	for i := range 40 {
		name := fmt.Sprintf("icon%02d.svg", i)
		icons = append(icons, theme.Entry{IconPath: name, FileExtensions: []string{fmt.Sprintf("e%d", i%7)}})
		files[name] = jsSource
	}
	src := setupSourceDir(t, files)

	seqOut := filepath.Join(t.TempDir(), "seq")
	parOut := filepath.Join(t.TempDir(), "par")

	seq := &Builder{Settings: testSettings(icons...), SourceDir: src, OutputDir: seqOut}
	par := &Builder{Settings: testSettings(icons...), SourceDir: src, OutputDir: parOut, Workers: 8}
	require.NoError(t, seq.Build(context.Background()))
	require.NoError(t, par.Build(context.Background()))

	assert.Equal(t,
		readFile(t, filepath.Join(seqOut, DefaultManifestName)),
		readFile(t, filepath.Join(parOut, DefaultManifestName)))
}

func TestBuild_MissingSource(t *testing.T) {
	icons := []theme.Entry{
		{IconPath: "js.svg"},
		{IconPath: "missing.svg"},
	}
	src := setupSourceDir(t, map[string]string{"js.svg": jsSource})
	out := filepath.Join(t.TempDir(), "fileicons")

	b := &Builder{Settings: testSettings(icons...), SourceDir: src, OutputDir: out}
	err := b.Build(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSourceAsset)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, statErr := os.Stat(filepath.Join(out, DefaultManifestName))
	assert.True(t, os.IsNotExist(statErr), "manifest must not be written")

	// Files written before the failure stay.
	_, statErr = os.Stat(filepath.Join(out, "images", "js.svg"))
	assert.NoError(t, statErr)
}

func TestBuild_OutputExists(t *testing.T) {
	src := setupSourceDir(t, map[string]string{"js.svg": jsSource})
	out := t.TempDir()

	b := &Builder{Settings: testSettings(), SourceDir: src, OutputDir: out}
	err := b.Build(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDestination)
	assert.ErrorIs(t, err, os.ErrExist)
}

func TestBuild_NoSettings(t *testing.T) {
	b := &Builder{OutputDir: filepath.Join(t.TempDir(), "out")}
	assert.ErrorIs(t, b.Build(context.Background()), ErrSettings)
}

func TestBuild_NestedIconPath(t *testing.T) {
	icons := []theme.Entry{{IconPath: "folders/src.svg", FolderNames: []string{"src"}}}
	src := setupSourceDir(t, map[string]string{"folders/src.svg": jsSource})
	out := filepath.Join(t.TempDir(), "fileicons")

	b := &Builder{Settings: testSettings(icons...), SourceDir: src, OutputDir: out}
	require.NoError(t, b.Build(context.Background()))

	_, err := os.Stat(filepath.Join(out, "images", "folders", "src_inverse.svg"))
	assert.NoError(t, err)

	doc, _ := readManifest(t, out)
	assert.Equal(t, "./images/folders/src_contrast.svg", doc.IconDefinitions["folders/src_contrast.svg"].IconPath)
}

func TestBuild_CustomManifestName(t *testing.T) {
	src := setupSourceDir(t, map[string]string{"js.svg": jsSource})
	out := filepath.Join(t.TempDir(), "fileicons")

	b := &Builder{Settings: testSettings(), SourceDir: src, OutputDir: out, ManifestName: "icons.json"}
	require.NoError(t, b.Build(context.Background()))

	_, err := os.Stat(filepath.Join(out, "icons.json"))
	assert.NoError(t, err)
}

func TestClean_Idempotent(t *testing.T) {
	out := filepath.Join(t.TempDir(), "never-created")
	b := &Builder{OutputDir: out}

	require.NoError(t, b.Clean())
	require.NoError(t, b.Clean())
}

func TestClean_RemovesTree(t *testing.T) {
	out := filepath.Join(t.TempDir(), "fileicons")
	require.NoError(t, os.MkdirAll(filepath.Join(out, "images"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(out, "images", "old.svg"), []byte("x"), 0o644))

	b := &Builder{OutputDir: out}
	require.NoError(t, b.Clean())

	_, err := os.Stat(out)
	assert.True(t, os.IsNotExist(err))
}

func TestRun_RebuildsOverPreviousOutput(t *testing.T) {
	src := setupSourceDir(t, map[string]string{"js.svg": jsSource})
	out := filepath.Join(t.TempDir(), "fileicons")

	b := &Builder{Settings: testSettings(), SourceDir: src, OutputDir: out}
	require.NoError(t, b.Run(context.Background()))
	require.NoError(t, os.WriteFile(filepath.Join(out, "images", "stale.svg"), []byte("x"), 0o644))
	require.NoError(t, b.Run(context.Background()))

	_, err := os.Stat(filepath.Join(out, "images", "stale.svg"))
	assert.True(t, os.IsNotExist(err), "stale output should be removed")
}

package parser

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/jsvensson/studioicons/internal/color"
)

const sampleJSON = `{
  "$schema": "./icon-settings.schema.json",
  "colors": {
    "background": "1E1E1E",
    "foreground": "#FFFFFF",
    "blue": "007ACC"
  },
  "light": {
    "colors": { "background": "F3F3F3" },
    "folder": "folder.svg",
    "folderExpanded": "folder_open.svg",
    "rootFolder": "root.svg",
    "rootFolderExpanded": "root_open.svg",
    "file": "file.svg"
  },
  "dark": {
    "colors": { "background": "252526", "blue": "3794FF" },
    "folder": "folder_inverse.svg",
    "file": "file_inverse.svg"
  },
  "contrast": {
    "colors": {},
    "file": "file_contrast.svg"
  },
  "iconDefinitions": [
    { "iconPath": "js.svg", "fileExtensions": ["js", "mjs"] },
    { "iconPath": "npm.svg", "fileNames": ["package.json"] },
    { "iconPath": "folder_src.svg", "folderNames": ["src"], "folderNamesExpanded": ["src"] }
  ]
}`

const sampleHCL = `
colors = {
  background = "1E1E1E"
  foreground = "FFFFFF"
}

light {
  colors = {
    background = brighten(colors.background, 0.5)
  }
  file = "file.svg"
}

dark {
  colors = {
    background = darken("#FFFFFF", 1.0)
  }
}

iconDefinitions {
  iconPath       = "js.svg"
  fileExtensions = ["js"]
}

iconDefinitions {
  iconPath  = "npm.svg"
  fileNames = ["package.json"]
}
`

const sampleTOML = `
[colors]
background = "1E1E1E"
foreground = "FFFFFF"

[light]
file = "file.svg"

[light.colors]
background = "F3F3F3"

[[iconDefinitions]]
iconPath = "js.svg"
fileExtensions = ["js"]

[[iconDefinitions]]
iconPath = "npm.svg"
fileNames = ["package.json"]
`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseJSON(t *testing.T) {
	res, err := Parse(writeTemp(t, "icon-settings.json", sampleJSON))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if len(res.Colors) != 3 {
		t.Errorf("len(Colors) = %d, want 3", len(res.Colors))
	}
	if res.Colors["foreground"] != "#FFFFFF" {
		t.Errorf("Colors[foreground] = %q", res.Colors["foreground"])
	}
	if res.Light.Colors["background"] != "F3F3F3" {
		t.Errorf("Light.Colors[background] = %q", res.Light.Colors["background"])
	}
	if res.Light.FolderExpanded != "folder_open.svg" || res.Light.RootFolderExpanded != "root_open.svg" {
		t.Errorf("Light glyphs = %+v", res.Light)
	}
	if res.Dark.Colors["blue"] != "3794FF" {
		t.Errorf("Dark.Colors[blue] = %q", res.Dark.Colors["blue"])
	}
	if res.Contrast.Colors == nil || len(res.Contrast.Colors) != 0 {
		t.Errorf("Contrast.Colors = %v, want empty", res.Contrast.Colors)
	}
	if res.Contrast.File != "file_contrast.svg" {
		t.Errorf("Contrast.File = %q", res.Contrast.File)
	}
}

func TestParseJSON_IconOrder(t *testing.T) {
	res, err := Parse(writeTemp(t, "icon-settings.json", sampleJSON))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	var paths []string
	for _, icon := range res.Icons {
		paths = append(paths, icon.IconPath)
	}
	if want := []string{"js.svg", "npm.svg", "folder_src.svg"}; !slices.Equal(paths, want) {
		t.Errorf("icon order = %v, want %v", paths, want)
	}

	js := res.Icons[0]
	if !slices.Equal(js.FileExtensions, []string{"js", "mjs"}) {
		t.Errorf("js.FileExtensions = %v", js.FileExtensions)
	}
	if js.FileNames != nil || js.FolderNames != nil || js.FolderNamesExpanded != nil {
		t.Errorf("undeclared categories should be nil: %+v", js)
	}
	if !slices.Equal(res.Icons[2].FolderNamesExpanded, []string{"src"}) {
		t.Errorf("folder_src.FolderNamesExpanded = %v", res.Icons[2].FolderNamesExpanded)
	}
}

func TestParseJSON_LiteralStrings(t *testing.T) {
	src := `{
  "colors": { "background": "1E1E1E" },
  "dark": { "file": "file$${x}_inverse.svg" },
  "iconDefinitions": [
    { "iconPath": "templ.svg", "fileNames": ["a${b}.txt", "100%{x}", "$${kept}"] }
  ]
}`
	res, err := Parse(writeTemp(t, "icon-settings.json", src))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	want := []string{"a${b}.txt", "100%{x}", "$${kept}"}
	if got := res.Icons[0].FileNames; !slices.Equal(got, want) {
		t.Errorf("FileNames = %q, want %q", got, want)
	}
	if got := res.Dark.File; got != "file$${x}_inverse.svg" {
		t.Errorf("Dark.File = %q, want it unchanged", got)
	}
}

func TestParseHCL_Functions(t *testing.T) {
	res, err := Parse(writeTemp(t, "icon-settings.hcl", sampleHCL))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	base, _ := color.ParseHex("1E1E1E")
	want := color.Brighten(base, 0.5).Hex()
	if got := res.Light.Colors["background"]; got != want {
		t.Errorf("Light.Colors[background] = %q, want %q", got, want)
	}
	if got := res.Dark.Colors["background"]; got != "#000000" {
		t.Errorf("Dark.Colors[background] = %q, want #000000", got)
	}
	if len(res.Icons) != 2 || res.Icons[1].FileNames[0] != "package.json" {
		t.Errorf("Icons = %+v", res.Icons)
	}
	if res.Contrast.Colors == nil {
		t.Error("missing contrast block should yield an empty palette")
	}
}

func TestParseHCL_InvalidFunctionColor(t *testing.T) {
	src := `
colors = { background = "zzz" }
light {
  colors = { background = brighten(colors.background, 0.1) }
}
`
	_, err := Parse(writeTemp(t, "icon-settings.hcl", src))
	if err == nil {
		t.Fatal("expected error for invalid color in brighten()")
	}
}

func TestParseTOML(t *testing.T) {
	res, err := Parse(writeTemp(t, "icon-settings.toml", sampleTOML))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if res.Colors["background"] != "1E1E1E" {
		t.Errorf("Colors[background] = %q", res.Colors["background"])
	}
	if res.Light.Colors["background"] != "F3F3F3" || res.Light.File != "file.svg" {
		t.Errorf("Light = %+v", res.Light)
	}
	if len(res.Icons) != 2 || res.Icons[0].IconPath != "js.svg" || res.Icons[1].IconPath != "npm.svg" {
		t.Errorf("Icons = %+v", res.Icons)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{"malformed json", "s.json", `{"colors": `, "parsing settings"},
		{"unknown extension", "s.yaml", `colors: {}`, "unsupported settings format"},
		{"missing iconPath", "s.json", `{"iconDefinitions": [{"fileExtensions": ["js"]}]}`, "iconPath"},
		{"malformed toml", "s.toml", `[colors`, "parsing settings"},
		{"missing iconPath in toml", "s.toml", "[[iconDefinitions]]\nfileNames = [\"x\"]\n", "iconDefinitions[0]: missing required iconPath"},
		{"wrong type in json", "s.json", `{"iconDefinitions": [{"iconPath": "js.svg", "fileExtensions": "js"}]}`, "parsing settings"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(writeTemp(t, tt.file, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestParse_MissingFile(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil || !strings.Contains(err.Error(), "reading settings file") {
		t.Errorf("error = %v", err)
	}
}

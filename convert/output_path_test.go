package convert

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"golang.org/x/text/language"

	"mdc/config"
	"mdc/content"
	"mdc/state"
)

func setupTestEnvForOutputPath(t *testing.T, noDirs bool, transliterate bool, template string) *state.LocalEnv {
	t.Helper()
	logger := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	cfg.Document.FileNameTransliterate = transliterate
	cfg.Document.OutputNameTemplate = template

	env := &state.LocalEnv{
		Log:    logger,
		Cfg:    cfg,
		NoDirs: noDirs,
	}
	return env
}

func setupTestContentForPath(t *testing.T, format config.OutputFmt) *content.Content {
	t.Helper()
	return &content.Content{
		SrcName:      "testdoc.xml",
		OutputFormat: format,
		ID:           "test-doc-id",
		Lang:         language.MustParse("en"),
		Title:        "Test Document",
	}
}

func TestBuildOutputPath_SimpleCase_NoDirs(t *testing.T) {
	env := setupTestEnvForOutputPath(t, true, false, "")
	c := setupTestContentForPath(t, config.OutputFmtText)

	got := buildOutputPath(c, filepath.Join("books", "testdoc.xml"), "/output", env)
	want := filepath.Join("/output", "testdoc.txt")
	if got != want {
		t.Errorf("buildOutputPath() = %s, want %s", got, want)
	}
}

func TestBuildOutputPath_SimpleCase_WithDirs(t *testing.T) {
	env := setupTestEnvForOutputPath(t, false, false, "")
	c := setupTestContentForPath(t, config.OutputFmtText)

	got := buildOutputPath(c, filepath.Join("books", "testdoc.xml"), "/output", env)
	want := filepath.Join("/output", "books", "testdoc.txt")
	if got != want {
		t.Errorf("buildOutputPath() = %s, want %s", got, want)
	}
}

func TestBuildOutputPath_DifferentFormats(t *testing.T) {
	tests := []struct {
		format  config.OutputFmt
		wantExt string
	}{
		{config.OutputFmtText, ".txt"},
		{config.OutputFmtHtml, ".html"},
	}

	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			env := setupTestEnvForOutputPath(t, true, false, "")
			c := setupTestContentForPath(t, tt.format)

			got := buildOutputPath(c, "testdoc.xml", "/output", env)
			want := filepath.Join("/output", "testdoc"+tt.wantExt)
			if got != want {
				t.Errorf("buildOutputPath() = %s, want %s", got, want)
			}
		})
	}
}

func TestBuildOutputPath_BundleExtension(t *testing.T) {
	env := setupTestEnvForOutputPath(t, true, false, "")
	env.Cfg.Document.HTML.Bundle = true
	c := setupTestContentForPath(t, config.OutputFmtHtml)

	got := buildOutputPath(c, "testdoc.xml", "/output", env)
	want := filepath.Join("/output", "testdoc.zip")
	if got != want {
		t.Errorf("buildOutputPath() = %s, want %s", got, want)
	}
}

func TestBuildOutputPath_Transliterate(t *testing.T) {
	env := setupTestEnvForOutputPath(t, true, true, "")
	c := setupTestContentForPath(t, config.OutputFmtText)

	got := buildOutputPath(c, "Тестовый Документ.xml", "/output", env)
	want := filepath.Join("/output", "testovyj-dokument.txt")
	if got != want {
		t.Errorf("buildOutputPath() = %s, want %s", got, want)
	}
}

func TestDetermineOutputDir_NoDirs(t *testing.T) {
	env := setupTestEnvForOutputPath(t, true, false, "")

	got := determineOutputDir(filepath.Join("deep", "nested", "doc.xml"), "/dst", env)
	if got != "/dst" {
		t.Errorf("determineOutputDir() = %s, want /dst", got)
	}
}

func TestDetermineOutputDir_WithDirs(t *testing.T) {
	env := setupTestEnvForOutputPath(t, false, false, "")

	got := determineOutputDir(filepath.Join("deep", "nested", "doc.xml"), "/dst", env)
	want := filepath.Join("/dst", "deep", "nested")
	if got != want {
		t.Errorf("determineOutputDir() = %s, want %s", got, want)
	}
}

func TestBuildDefaultFileName(t *testing.T) {
	tests := []struct {
		name          string
		src           string
		transliterate bool
		want          string
	}{
		{"plain name", "document.xml", false, "document.txt"},
		{"nested path", filepath.Join("a", "b", "document.xml"), false, "document.txt"},
		{"cyrillic transliterated", "документ.xml", true, "dokument.txt"},
		{"spaces transliterated", "My Document.xml", true, "my-document.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnvForOutputPath(t, true, tt.transliterate, "")
			got := buildDefaultFileName(tt.src, config.OutputFmtText, env)
			if got != tt.want {
				t.Errorf("buildDefaultFileName() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSplitPath(t *testing.T) {
	tests := []struct {
		name string
		path string
		want []string
	}{
		{"single segment", "name", []string{"name"}},
		{"two segments", filepath.Join("dir", "name"), []string{"dir", "name"}},
		{"three segments", filepath.Join("a", "b", "c"), []string{"a", "b", "c"}},
		{"trailing separator", "dir" + string(filepath.Separator), []string{"dir"}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitAndCleanPath(tt.path)
			if len(got) != len(tt.want) {
				t.Fatalf("splitAndCleanPath() = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("segment %d = %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestCleanPathSegment(t *testing.T) {
	t.Run("no transliteration", func(t *testing.T) {
		env := setupTestEnvForOutputPath(t, true, false, "")
		got := cleanPathSegment("simple name", env)
		if got != "simple name" {
			t.Errorf("cleanPathSegment() = %s", got)
		}
	})

	t.Run("with transliteration", func(t *testing.T) {
		env := setupTestEnvForOutputPath(t, true, true, "")
		got := cleanPathSegment("Заголовок", env)
		if got != "zagolovok" {
			t.Errorf("cleanPathSegment() = %s", got)
		}
	})
}

func TestBuildOutputPath_Template(t *testing.T) {
	env := setupTestEnvForOutputPath(t, true, false, "{{ .Title }}")
	c := setupTestContentForPath(t, config.OutputFmtText)

	got := buildOutputPath(c, "testdoc.xml", "/output", env)
	want := filepath.Join("/output", "Test Document.txt")
	if got != want {
		t.Errorf("buildOutputPath() = %s, want %s", got, want)
	}
}

func TestBuildOutputPath_TemplateWithSubdirs(t *testing.T) {
	env := setupTestEnvForOutputPath(t, true, false, "{{ .Language }}/{{ .Title }}")
	c := setupTestContentForPath(t, config.OutputFmtText)

	got := buildOutputPath(c, "testdoc.xml", "/output", env)
	want := filepath.Join("/output", "en", "Test Document.txt")
	if got != want {
		t.Errorf("buildOutputPath() = %s, want %s", got, want)
	}
}

func TestBuildOutputPath_BrokenTemplateFallsBack(t *testing.T) {
	env := setupTestEnvForOutputPath(t, true, false, "{{ .NoSuchField }}")
	c := setupTestContentForPath(t, config.OutputFmtText)

	got := buildOutputPath(c, "testdoc.xml", "/output", env)
	want := filepath.Join("/output", "testdoc.txt")
	if got != want {
		t.Errorf("buildOutputPath() = %s, want %s", got, want)
	}
}

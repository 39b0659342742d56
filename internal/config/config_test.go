package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nerdneilsfield/go-docprep/internal/template"
	"github.com/nerdneilsfield/go-docprep/pkg/document"
	"github.com/nerdneilsfield/go-docprep/pkg/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, layout.DefaultPageWidth, cfg.PageWidth)
	assert.Equal(t, layout.DefaultMaxPasses, cfg.MaxPasses)
	assert.Equal(t, template.DefaultArticleOptions(), cfg.ArticleOptions())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"narrow page", func(c *Config) { c.PageWidth = 5 }},
		{"short page", func(c *Config) { c.PageHeight = 2 }},
		{"no passes", func(c *Config) { c.MaxPasses = 0 }},
		{"bad abstract location", func(c *Config) { c.Template.AbstractLocation = "appendix" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.modify(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docprep.yaml")
	err := os.WriteFile(path, []byte(`
page_width: 40
max_passes: 3
styles:
  body:
    indent: 2
    space_after: 0
template:
  abstract_location: title
  index: false
  index_title: Register
`), 0o644)
	require.NoError(t, err)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 40, cfg.PageWidth)
	assert.Equal(t, layout.DefaultPageHeight, cfg.PageHeight)
	assert.Equal(t, 3, cfg.MaxPasses)
	assert.True(t, cfg.Template.TableOfContents)

	article := cfg.ArticleOptions()
	assert.Equal(t, template.AbstractTitle, article.AbstractLocation)
	assert.False(t, article.Index)
	assert.Equal(t, "Register", article.IndexTitle)

	opts := cfg.LayoutOptions()
	assert.Equal(t, document.Style{Indent: 2}, opts.Stylesheet.Lookup("body"))
	assert.Equal(t, layout.DefaultStylesheet().Lookup("code"), opts.Stylesheet.Lookup("code"))
}

func TestLoadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docprep.yaml")
	require.NoError(t, os.WriteFile(path, []byte("page_height: 1\n"), 0o644))

	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "page_height")
}

func TestSaveConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "docprep.yaml")
	cfg := NewDefaultConfig()
	cfg.PageWidth = 60
	cfg.GlossaryPath = "terms.toml"
	cfg.Styles["quote"] = document.Style{Indent: 6, Prefix: "> "}

	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 60, loaded.PageWidth)
	assert.Equal(t, "terms.toml", loaded.GlossaryPath)
	assert.Equal(t, document.Style{Indent: 6, Prefix: "> "}, loaded.Styles["quote"])
}

func TestParseGlossary(t *testing.T) {
	glossary, err := ParseGlossary(`
[[term]]
word = "lime"

[[term]]
word = "kiwi"
entry = "fruit"
subentry = "kiwi"
`)
	require.NoError(t, err)
	require.Len(t, glossary.Terms, 2)
	assert.Equal(t, "lime", glossary.Terms[0].Entry)
	assert.Equal(t, "fruit", glossary.Terms[1].Entry)

	_, err = ParseGlossary("[[term]]\nentry = \"x\"\n")
	assert.ErrorContains(t, err, "missing word")

	_, err = ParseGlossary("[[term]\n")
	assert.Error(t, err)
}

func TestLoadGlossary(t *testing.T) {
	_, err := LoadGlossary(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorContains(t, err, "not found")

	path := filepath.Join(t.TempDir(), "terms.toml")
	require.NoError(t, os.WriteFile(path, []byte("[[term]]\nword = \"pear\"\n"), 0o644))
	glossary, err := LoadGlossary(path)
	require.NoError(t, err)
	assert.Equal(t, "pear", glossary.Terms[0].Word)
}

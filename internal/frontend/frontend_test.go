package frontend

import (
	"testing"

	"github.com/nerdneilsfield/go-docprep/pkg/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatForFile(t *testing.T) {
	tests := map[string]document.Format{
		"notes.md":      document.FormatMarkdown,
		"dir/README.MD": document.FormatMarkdown,
		"book.markdown": document.FormatMarkdown,
		"page.HTML":     document.FormatHTML,
		"page.xhtml":    document.FormatHTML,
		"letter.rtf":    document.FormatUnknown,
		"no-extension":  document.FormatUnknown,
	}
	for path, want := range tests {
		assert.Equal(t, want, FormatForFile(path), path)
	}
}

func TestForFile(t *testing.T) {
	parser, err := ForFile("a.md", nil)
	require.NoError(t, err)
	assert.Equal(t, document.FormatMarkdown, parser.Format())

	parser, err = ForFile("a.htm", nil)
	require.NoError(t, err)
	assert.Equal(t, document.FormatHTML, parser.Format())

	_, err = ForFile("a.rtf", nil)
	assert.ErrorContains(t, err, ".rtf")

	_, err = ForFormat(document.FormatUnknown, nil)
	assert.Error(t, err)
}

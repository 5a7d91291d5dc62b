package ingest

import (
	"archive/zip"
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharp-standards/screen-cli/internal/model"
)

// docxBytes builds a minimal OOXML container with the given paragraphs.
func docxBytes(t *testing.T, paragraphs ...string) []byte {
	t.Helper()

	var xmlBody strings.Builder
	xmlBody.WriteString(`<?xml version="1.0"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		xmlBody.WriteString(`<w:p><w:r><w:t>` + p + `</w:t></w:r></w:p>`)
	}
	xmlBody.WriteString(`</w:body></w:document>`)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte(xmlBody.String()))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtract_TXT(t *testing.T) {
	e := NewExtractor(nil, 4000)
	ex := e.Extract(context.Background(), model.NewDocument("cv.txt", []byte("Go engineer, 5 years")))

	assert.False(t, ex.Failed())
	assert.Equal(t, "cv.txt", ex.SourceName)
	assert.Equal(t, "Go engineer, 5 years", ex.Text)
}

func TestExtract_TXT_InvalidUTF8Tolerated(t *testing.T) {
	e := NewExtractor(nil, 4000)
	raw := append([]byte("valid "), 0xff, 0xfe)
	ex := e.Extract(context.Background(), model.NewDocument("cv.txt", raw))

	assert.False(t, ex.Failed())
	assert.Contains(t, ex.Text, "valid")
	assert.Contains(t, ex.Text, "�")
}

func TestExtract_DOCX(t *testing.T) {
	e := NewExtractor(nil, 4000)
	raw := docxBytes(t, "First paragraph", "Second paragraph")
	ex := e.Extract(context.Background(), model.NewDocument("cv.docx", raw))

	assert.False(t, ex.Failed())
	assert.Equal(t, "First paragraph\nSecond paragraph", ex.Text)
}

func TestExtract_CorruptDOCX_ErrorMarker(t *testing.T) {
	e := NewExtractor(nil, 4000)
	ex := e.Extract(context.Background(), model.NewDocument("cv.docx", []byte("not a zip")))

	assert.True(t, ex.Failed())
	assert.Contains(t, ex.Text, "Error reading cv.docx:")
	assert.NotEmpty(t, ex.Err)
}

func TestExtract_CorruptPDF_ErrorMarker(t *testing.T) {
	e := NewExtractor(nil, 4000)
	ex := e.Extract(context.Background(), model.NewDocument("cv.pdf", []byte("%PDF-1.4 garbage")))

	assert.True(t, ex.Failed())
	assert.Contains(t, ex.Text, "Error reading cv.pdf:")
}

func TestExtract_EmptyPDF(t *testing.T) {
	e := NewExtractor(nil, 4000)
	ex := e.Extract(context.Background(), model.NewDocument("cv.pdf", nil))

	assert.True(t, ex.Failed())
	assert.NotEmpty(t, ex.Err)
}

func TestExtract_UnsupportedFormat_Marker(t *testing.T) {
	e := NewExtractor(nil, 4000)
	ex := e.Extract(context.Background(), model.NewDocument("photo.png", []byte{0x89, 0x50}))

	assert.True(t, ex.Failed())
	// Distinguishable from "no content": the marker names the file.
	assert.Equal(t, "Unsupported format: photo.png", ex.Text)
	assert.Equal(t, "unsupported format", ex.Err)
}

func TestExtract_Audio_NoTranscriber(t *testing.T) {
	e := NewExtractor(nil, 4000)
	ex := e.Extract(context.Background(), model.NewDocument("interview.mp3", []byte{1, 2, 3}))

	assert.True(t, ex.Failed())
	assert.Contains(t, ex.Text, "Error reading interview.mp3:")
}

type stubTranscriber struct {
	text string
	err  error
}

func (s stubTranscriber) Transcribe(_ context.Context, _ string, _ []byte) (string, error) {
	return s.text, s.err
}

func TestExtract_Audio_Transcribed(t *testing.T) {
	e := NewExtractor(stubTranscriber{text: "hello from the interview"}, 4000)
	ex := e.Extract(context.Background(), model.NewDocument("interview.mp3", []byte{1, 2, 3}))

	assert.False(t, ex.Failed())
	assert.Equal(t, "hello from the interview", ex.Text)
}

func TestExtract_TruncatesToMaxChars(t *testing.T) {
	e := NewExtractor(nil, 10)
	long := strings.Repeat("é", 50)
	ex := e.Extract(context.Background(), model.NewDocument("cv.txt", []byte(long)))

	assert.False(t, ex.Failed())
	assert.Equal(t, strings.Repeat("é", 10), ex.Text)
}

func TestTruncate_RuneSafe(t *testing.T) {
	assert.Equal(t, "héllo", truncate("héllo", 10))
	assert.Equal(t, "hé", truncate("héllo", 2))
}

package ingest

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharp-standards/screen-cli/internal/model"
)

func zipBytes(t *testing.T, entries map[string][]byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range entries {
		f, err := zw.Create(name)
		require.NoError(t, err)
		_, err = f.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestUnpack_FiltersToSupportedDocuments(t *testing.T) {
	raw := zipBytes(t, map[string][]byte{
		"alice.pdf":            []byte("%PDF-"),
		"bob.docx":             []byte("PK"),
		"carol.txt":            []byte("plain"),
		"notes.md":             []byte("# md"),
		"voice.mp3":            []byte{1, 2},
		"app.exe":              []byte{0xde, 0xad},
		"folder/":              nil,
		"folder/dave.txt":      []byte("nested"),
		"__MACOSX/alice.pdf":   []byte("resource fork"),
		"folder/._bob.docx":    []byte("metadata"),
		"nested/archive.zip":   []byte("PK"),
		"README":               []byte("no extension"),
	})

	docs := Unpack("bundle.zip", raw)

	names := make(map[string]model.Format, len(docs))
	for _, d := range docs {
		names[d.Name] = d.Format
	}

	assert.Len(t, docs, 6)
	assert.Equal(t, model.FormatPDF, names["alice.pdf"])
	assert.Equal(t, model.FormatDOCX, names["bob.docx"])
	assert.Equal(t, model.FormatTXT, names["carol.txt"])
	assert.Equal(t, model.FormatMD, names["notes.md"])
	assert.Equal(t, model.FormatAudio, names["voice.mp3"])
	assert.Equal(t, model.FormatTXT, names["dave.txt"])
	assert.NotContains(t, names, "app.exe")
	assert.NotContains(t, names, "archive.zip")
}

func TestUnpack_EntryContentPreserved(t *testing.T) {
	raw := zipBytes(t, map[string][]byte{"cv.txt": []byte("candidate body")})

	docs := Unpack("bundle.zip", raw)

	require.Len(t, docs, 1)
	assert.Equal(t, []byte("candidate body"), docs[0].Raw)
}

func TestUnpack_CorruptArchive_YieldsNothing(t *testing.T) {
	docs := Unpack("broken.zip", []byte("definitely not a zip"))
	assert.Empty(t, docs)
}

func TestUnpack_EmptyInput(t *testing.T) {
	assert.Empty(t, Unpack("empty.zip", nil))
}

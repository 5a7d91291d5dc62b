package ingest

import (
	"archive/zip"
	"bytes"
	"io"
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/sharp-standards/screen-cli/internal/model"
)

// Unpack expands a zip archive into the individually extractable documents it
// contains. Directory entries, platform metadata, and unsupported formats are
// dropped; a corrupt archive yields zero entries rather than an error, so one
// bad archive never aborts a batch.
func Unpack(name string, raw []byte) []model.Document {
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		zap.L().Warn("ingest: unreadable archive",
			zap.String("name", name),
			zap.Error(err),
		)
		return nil
	}

	var docs []model.Document
	for _, f := range zr.File {
		if !keepEntry(f) {
			continue
		}

		rc, openErr := f.Open()
		if openErr != nil {
			zap.L().Warn("ingest: skipping unreadable archive entry",
				zap.String("archive", name),
				zap.String("entry", f.Name),
				zap.Error(openErr),
			)
			continue
		}
		data, readErr := io.ReadAll(rc)
		_ = rc.Close()
		if readErr != nil {
			zap.L().Warn("ingest: skipping unreadable archive entry",
				zap.String("archive", name),
				zap.String("entry", f.Name),
				zap.Error(readErr),
			)
			continue
		}

		docs = append(docs, model.NewDocument(path.Base(f.Name), data))
	}

	return docs
}

// keepEntry filters out directories, macOS resource-fork metadata, and entries
// whose suffix is not a supported document type.
func keepEntry(f *zip.File) bool {
	entryName := f.Name
	if f.FileInfo().IsDir() || strings.HasSuffix(entryName, "/") {
		return false
	}
	if strings.HasPrefix(entryName, "__MACOSX/") || strings.Contains(entryName, "/__MACOSX/") {
		return false
	}
	if strings.HasPrefix(path.Base(entryName), "._") {
		return false
	}

	switch model.DetectFormat(entryName) {
	case model.FormatPDF, model.FormatDOCX, model.FormatTXT, model.FormatMD, model.FormatAudio:
		return true
	default:
		// Nested archives and unrecognized files are dropped silently.
		return false
	}
}

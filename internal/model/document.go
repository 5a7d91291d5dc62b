package model

import (
	"path/filepath"
	"strings"
)

// Format identifies a candidate document format. It is determined once at
// ingestion time from the filename suffix and switched over exhaustively
// downstream.
type Format string

const (
	FormatPDF     Format = "pdf"
	FormatDOCX    Format = "docx"
	FormatTXT     Format = "txt"
	FormatMD      Format = "md"
	FormatAudio   Format = "audio"
	FormatArchive Format = "zip"
	FormatUnknown Format = "unknown"
)

// audioExts are the recognized audio container suffixes, matching what the
// transcription endpoint accepts.
var audioExts = map[string]bool{
	".mp3":  true,
	".m4a":  true,
	".wav":  true,
	".mp4":  true,
	".mpeg": true,
	".mpga": true,
}

// DetectFormat maps a filename to its Format by suffix, case-insensitive.
func DetectFormat(name string) Format {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".pdf":
		return FormatPDF
	case ".docx", ".doc":
		return FormatDOCX
	case ".txt":
		return FormatTXT
	case ".md":
		return FormatMD
	case ".zip":
		return FormatArchive
	default:
		if audioExts[ext] {
			return FormatAudio
		}
		return FormatUnknown
	}
}

// Document is one uploaded candidate artifact. Raw bytes are consumed once by
// extraction and not retained afterwards.
type Document struct {
	Name   string
	Format Format
	Raw    []byte
}

// NewDocument tags raw bytes with their detected format.
func NewDocument(name string, raw []byte) Document {
	return Document{
		Name:   name,
		Format: DetectFormat(name),
		Raw:    raw,
	}
}

// Extraction is the plain-text result of extracting one document. Text may be
// empty or carry an embedded error marker; Err holds the diagnostic when
// extraction could not produce usable text.
type Extraction struct {
	SourceName string
	Text       string
	Err        string
}

// Failed reports whether the extraction produced no usable text.
func (e Extraction) Failed() bool {
	return strings.TrimSpace(e.Text) == "" || e.Err != ""
}

// Package ingest converts opaque uploaded artifacts into plain text suitable
// for evaluation. Extraction never fails past its boundary: corrupt input is
// converted to an error marker or empty text so downstream stages always
// receive a string.
package ingest

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"

	"github.com/sharp-standards/screen-cli/internal/model"
)

// Transcriber converts audio bytes into text. Implemented by pkg/transcribe;
// treated as an external capability here.
type Transcriber interface {
	Transcribe(ctx context.Context, filename string, audio []byte) (string, error)
}

// Extractor turns candidate documents into bounded plain text.
type Extractor struct {
	transcriber Transcriber
	maxChars    int
}

// NewExtractor creates an Extractor. transcriber may be nil if audio input is
// not expected; maxChars bounds the extracted text handed to evaluation.
func NewExtractor(transcriber Transcriber, maxChars int) *Extractor {
	if maxChars <= 0 {
		maxChars = 4000
	}
	return &Extractor{transcriber: transcriber, maxChars: maxChars}
}

// Extract converts one document into text. Any internal failure is captured:
// the returned Extraction carries either an error marker in Text or an empty
// Text plus a diagnostic in Err.
func (e *Extractor) Extract(ctx context.Context, doc model.Document) model.Extraction {
	ex := model.Extraction{SourceName: doc.Name}

	var text string
	var err error
	switch doc.Format {
	case model.FormatPDF:
		text, err = extractPDF(doc.Raw)
	case model.FormatDOCX:
		text, err = extractDOCX(doc.Raw)
	case model.FormatTXT, model.FormatMD:
		text = decodeText(doc.Raw)
	case model.FormatAudio:
		text, err = e.transcribe(ctx, doc)
	case model.FormatArchive:
		// Archives are expanded by Unpack before extraction.
		err = fmt.Errorf("archive must be unpacked before extraction")
	case model.FormatUnknown:
		ex.Text = fmt.Sprintf("Unsupported format: %s", doc.Name)
		ex.Err = "unsupported format"
		return ex
	default:
		ex.Text = fmt.Sprintf("Unsupported format: %s", doc.Name)
		ex.Err = "unsupported format"
		return ex
	}

	if err != nil {
		zap.L().Warn("ingest: extraction failed",
			zap.String("name", doc.Name),
			zap.String("format", string(doc.Format)),
			zap.Error(err),
		)
		ex.Text = fmt.Sprintf("Error reading %s: %v", doc.Name, err)
		ex.Err = err.Error()
		return ex
	}

	ex.Text = truncate(strings.TrimSpace(text), e.maxChars)
	return ex
}

func (e *Extractor) transcribe(ctx context.Context, doc model.Document) (string, error) {
	if e.transcriber == nil {
		return "", fmt.Errorf("no transcription capability configured")
	}
	return e.transcriber.Transcribe(ctx, doc.Name, doc.Raw)
}

// extractPDF pulls text page by page, concatenated with newline separators.
// Pages that yield no text are skipped.
func extractPDF(data []byte) (text string, err error) {
	// The pdf package panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("corrupt pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, pageErr := page.GetPlainText(nil)
		if pageErr != nil || strings.TrimSpace(content) == "" {
			continue
		}
		pages = append(pages, content)
	}

	return strings.Join(pages, "\n"), nil
}

// extractDOCX reads word/document.xml out of the OOXML container and strips
// the markup, joining paragraphs with newlines.
func extractDOCX(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty docx data")
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var docFile *zip.File
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", fmt.Errorf("document.xml not found")
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}

	return stripDocxXML(raw), nil
}

func stripDocxXML(raw []byte) string {
	decoder := xml.NewDecoder(bytes.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.Write(t)
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				if buf.Len() > 0 {
					buf.WriteString("\n")
				}
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

// decodeText tolerates invalid UTF-8 by replacing bad bytes rather than
// failing the extraction.
func decodeText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	return strings.ToValidUTF8(string(data), "�")
}

// truncate bounds text to max runes without splitting a rune. The bound is a
// deliberate token/cost ceiling; callers must not assume full-document text.
func truncate(text string, max int) string {
	if utf8.RuneCountInString(text) <= max {
		return text
	}
	runes := []rune(text)
	return string(runes[:max])
}

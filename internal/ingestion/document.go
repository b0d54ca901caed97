package ingestion

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// Supported resume formats.
const (
	FormatPDF  = "pdf"
	FormatDOCX = "docx"
	FormatText = "text"
)

// MIME types recognized by DetectFormat.
const (
	MIMEPDF  = "application/pdf"
	MIMEDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMEText = "text/plain"
)

var (
	// ErrUnsupportedFormat is returned for documents that are not PDF, DOCX or plain text.
	ErrUnsupportedFormat = errors.New("unsupported document format")
	// ErrEmptyDocument is returned when a document yields no text.
	ErrEmptyDocument = errors.New("no text could be extracted from the document")
)

// ExtractionError wraps a failure to read text from a document.
type ExtractionError struct {
	Format  string
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s extraction failed: %s: %v", e.Format, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s extraction failed: %s", e.Format, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// DetectFormat picks a format from the MIME type, falling back to the file
// extension when the MIME type is missing or generic.
func DetectFormat(mimeType, filename string) (string, error) {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}

	switch mimeType {
	case MIMEPDF:
		return FormatPDF, nil
	case MIMEDOCX:
		return FormatDOCX, nil
	case MIMEText, "text/markdown":
		return FormatText, nil
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return FormatPDF, nil
	case ".docx":
		return FormatDOCX, nil
	case ".txt", ".md", ".markdown":
		return FormatText, nil
	}

	return "", fmt.Errorf("%w: mime %q, file %q", ErrUnsupportedFormat, mimeType, filename)
}

// ExtractDocument returns the cleaned text of a resume document.
func ExtractDocument(format string, data []byte) (string, error) {
	var (
		text string
		err  error
	)
	switch format {
	case FormatPDF:
		text, err = extractPDFText(data)
	case FormatDOCX:
		text, err = extractDocxText(data)
	case FormatText:
		text = string(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return "", err
	}

	text = CleanText(text)
	if text == "" {
		return "", &ExtractionError{Format: format, Message: "document is empty", Cause: ErrEmptyDocument}
	}
	return text, nil
}

func extractPDFText(data []byte) (text string, err error) {
	// The pdf reader panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			err = &ExtractionError{Format: FormatPDF, Message: fmt.Sprintf("malformed document: %v", r)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{Format: FormatPDF, Message: "failed to read pdf", Cause: err}
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", &ExtractionError{Format: FormatPDF, Message: fmt.Sprintf("failed to read page %d", i), Cause: err}
		}
		b.WriteString(pageText)
		b.WriteString("\n")
	}
	return b.String(), nil
}

var (
	docxParagraphEnd = regexp.MustCompile(`</w:p>|<w:br[^>]*/>|<w:tab[^>]*/>`)
	xmlTag           = regexp.MustCompile(`<[^>]+>`)
)

func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{Format: FormatDOCX, Message: "failed to parse docx", Cause: err}
	}
	defer doc.Close() //nolint:errcheck

	content := doc.Editable().GetContent()
	content = docxParagraphEnd.ReplaceAllStringFunc(content, func(tag string) string {
		if strings.HasPrefix(tag, "<w:tab") {
			return " "
		}
		return "\n"
	})
	content = xmlTag.ReplaceAllString(content, "")
	return html.UnescapeString(content), nil
}

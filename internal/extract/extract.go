package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"resume-analyzer/internal/shared/storage/object"
)

const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeText = "text/plain"
)

// ErrUnsupported is returned for payloads that are neither PDF, DOCX nor text.
var ErrUnsupported = errors.New("unsupported document type")

// Document is the plain text of an uploaded resume.
type Document struct {
	Text      string
	PageCount int
}

// FromStore pulls text from a stored object and persists a derived .extracted.txt copy.
func FromStore(ctx context.Context, store object.ObjectStore, fileKey string, mimeType string, fileName string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}

	body, err := store.Open(ctx, fileKey)
	if err != nil {
		return Document{}, fmt.Errorf("extract text key=%s mime=%s: %w", fileKey, mimeType, err)
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return Document{}, fmt.Errorf("extract text key=%s mime=%s: read: %w", fileKey, mimeType, err)
	}

	doc, err := FromBytes(ctx, raw, mimeType, fileName)
	if err != nil {
		return Document{}, fmt.Errorf("extract text key=%s mime=%s: %w", fileKey, mimeType, err)
	}

	if saver, ok := store.(object.KeySaver); ok {
		extractedKey := fileKey + ".extracted.txt"
		if _, err := saver.SaveWithKey(ctx, extractedKey, "text/plain; charset=utf-8", strings.NewReader(doc.Text)); err != nil {
			return Document{}, fmt.Errorf("extract text key=%s mime=%s: save: %w", fileKey, mimeType, err)
		}
	}

	return doc, nil
}

// FromBytes extracts text from an in-memory payload.
func FromBytes(ctx context.Context, data []byte, mimeType string, fileName string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	switch normalized := NormalizeMimeType(mimeType, fileName, data); normalized {
	case MimePDF:
		return extractPDF(data)
	case MimeDOCX:
		return extractDOCX(data)
	case MimeText:
		if !utf8.Valid(data) {
			return Document{}, fmt.Errorf("%w: text is not utf-8", ErrUnsupported)
		}
		return Document{Text: string(data), PageCount: 1}, nil
	default:
		return Document{}, fmt.Errorf("%w: %s", ErrUnsupported, normalized)
	}
}

func extractPDF(data []byte) (Document, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return Document{}, fmt.Errorf("read pdf: %w", err)
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return Document{}, fmt.Errorf("pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return Document{}, fmt.Errorf("pdf text: %w", err)
	}
	pages := pdfReader.NumPage()
	if pages < 1 {
		pages = 1
	}
	return Document{Text: buf.String(), PageCount: pages}, nil
}

func extractDOCX(data []byte) (Document, error) {
	if len(data) == 0 {
		return Document{}, errors.New("empty docx data")
	}
	r, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Document{}, fmt.Errorf("read docx: %w", err)
	}
	defer r.Close()

	return Document{Text: stripDocxXML(r.Editable().GetContent()), PageCount: 1}, nil
}

func stripDocxXML(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return raw
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.WriteString(string(t))
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

// NormalizeMimeType maps a declared or sniffed content type to one of the
// supported types, using the file extension when the type is generic.
func NormalizeMimeType(mimeType string, fileName string, data []byte) string {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	switch clean {
	case MimePDF, MimeDOCX, MimeText:
		return clean
	case "application/zip":
		if isDocxArchive(data) {
			return MimeDOCX
		}
	}

	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return MimePDF
	case ".docx":
		return MimeDOCX
	case ".txt":
		return MimeText
	}
	if bytes.HasPrefix(data, []byte("%PDF-")) {
		return MimePDF
	}
	if clean == "" {
		return "application/octet-stream"
	}
	return clean
}

func isDocxArchive(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return false
	}
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == "word/document.xml" {
			return true
		}
	}
	return false
}

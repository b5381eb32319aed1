package document

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// MediaType identifies the document formats the loader understands.
type MediaType string

const (
	MediaTypePDF  MediaType = "application/pdf"
	MediaTypeDOCX MediaType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MediaTypeText MediaType = "text/plain"
)

// Segment is one ordered piece of raw text pulled from a file, e.g. one PDF page.
type Segment struct {
	Text   string
	Source string
}

// Loader turns an uploaded file into raw text segments.
// Unsupported media types yield no segments and no error.
type Loader interface {
	Load(ctx context.Context, filename string, mediaType MediaType, data []byte) ([]Segment, error)
}

// ResolveMediaType normalises a declared content type, falling back to the
// file extension when the client sent something generic.
func ResolveMediaType(filename, declared string) MediaType {
	if declared != "" {
		if mt, _, err := mime.ParseMediaType(declared); err == nil {
			switch MediaType(mt) {
			case MediaTypePDF, MediaTypeDOCX, MediaTypeText:
				return MediaType(mt)
			}
		}
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return MediaTypePDF
	case ".docx":
		return MediaTypeDOCX
	case ".txt", ".md":
		return MediaTypeText
	}
	return MediaType(declared)
}

type FileLoader struct{}

func NewFileLoader() *FileLoader {
	return &FileLoader{}
}

func (l *FileLoader) Load(ctx context.Context, filename string, mediaType MediaType, data []byte) ([]Segment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch mediaType {
	case MediaTypePDF:
		return loadPDF(ctx, filename, data)
	case MediaTypeDOCX:
		return loadDOCX(filename, data)
	case MediaTypeText:
		return []Segment{{Text: string(data), Source: filename}}, nil
	default:
		return nil, nil
	}
}

// loadPDF returns one segment per page.
func loadPDF(ctx context.Context, filename string, data []byte) ([]Segment, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	var segments []Segment
	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("read pdf page %d: %w", i, err)
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		segments = append(segments, Segment{
			Text:   text,
			Source: fmt.Sprintf("%s#page=%d", filename, i),
		})
	}
	return segments, nil
}

// loadDOCX extracts paragraph text from word/document.xml.
func loadDOCX(filename string, data []byte) ([]Segment, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open docx: %w", err)
	}

	var body io.ReadCloser
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			body, err = f.Open()
			if err != nil {
				return nil, fmt.Errorf("open docx body: %w", err)
			}
			break
		}
	}
	if body == nil {
		return nil, errors.New("docx has no word/document.xml")
	}
	defer body.Close()

	var (
		paragraphs []string
		current    strings.Builder
		inText     bool
	)
	dec := xml.NewDecoder(body)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse docx body: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				current.WriteString("\t")
			case "br":
				current.WriteString("\n")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				paragraphs = append(paragraphs, current.String())
				current.Reset()
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}

	text := strings.TrimSpace(strings.Join(paragraphs, "\n"))
	if text == "" {
		return nil, nil
	}
	return []Segment{{Text: text, Source: filename}}, nil
}

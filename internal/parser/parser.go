package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/doxadoc/internal/doctree"
)

// Parser converts raw input bytes into an extracted Document.
type Parser interface {
	Parse(r io.Reader, filename string) (*doctree.Document, error)
}

// SupportedExtensions lists file extensions the converter can read.
var SupportedExtensions = map[string]bool{
	".xml":      true,
	".txt":      true,
	".md":       true,
	".markdown": true,
	".csv":      true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the appropriate parser for a filename. Everything but
// Doxygen XML is imported as a standalone page.
func ForFile(filename string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".xml":
		return &DoxygenParser{}, nil
	case ".txt":
		return &TextParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".csv":
		return &CSVParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// pageDocument wraps imported blocks as a standalone page document.
func pageDocument(filename string, blocks []doctree.Block) *doctree.Document {
	name := pageTitle(filename)
	return &doctree.Document{
		ID:         "page_" + name,
		Name:       name,
		Kind:       doctree.KindPage,
		Standalone: true,
		Pages:      []*doctree.Page{{DocID: "page_" + name, Name: name, Blocks: blocks}},
	}
}

// titled prepends a page title when the imported blocks carry none.
func titled(title string, blocks []doctree.Block) []doctree.Block {
	for _, b := range blocks {
		if _, ok := b.(doctree.TitleBlock); ok {
			return blocks
		}
	}
	return append([]doctree.Block{doctree.TitleBlock{Title: title}}, blocks...)
}

// pageTitle is the file's base name without its extension.
func pageTitle(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

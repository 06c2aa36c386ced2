package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/doxadoc/internal/doctree"
)

// TextParser imports plain text files as pages, one text block per paragraph.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var blocks []doctree.Block
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			blocks = append(blocks, doctree.TextBlock{Text: current.String()})
			current.Reset()
		}
	}

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(line)
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return pageDocument(filename, titled(pageTitle(filename), blocks)), nil
}

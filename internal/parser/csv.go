package parser

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/dgallion1/doxadoc/internal/doctree"
)

// CSVParser imports CSV files as a page holding one table. The first row is
// the header.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	blocks := []doctree.Block{doctree.TitleBlock{Title: pageTitle(filename)}}
	if len(records) > 0 {
		blocks = append(blocks, doctree.TableBlock{
			Header: records[0],
			Rows:   records[1:],
		})
	}
	return pageDocument(filename, blocks), nil
}

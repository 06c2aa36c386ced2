package render

import (
	"fmt"
	"strings"

	"github.com/dgallion1/doxadoc/internal/doctree"
)

// ditaaMarker flags a listing that already carries its own diagram block.
const ditaaMarker = "[ditaa]"

// writePage emits page blocks under a group at depth. Page titles nest one
// level below the group heading plus their section level.
func writePage(sb *strings.Builder, pg *doctree.Page, depth int) error {
	for _, b := range pg.Blocks {
		switch b := b.(type) {
		case doctree.CodeBlock:
			if strings.Contains(b.Code, ditaaMarker) {
				sb.WriteString(b.Code + "\n")
			} else {
				sb.WriteString("----\n")
				sb.WriteString(b.Code + "\n")
				sb.WriteString("----\n")
			}
		case doctree.TitleBlock:
			sb.WriteString("\n")
			sb.WriteString(heading(depth+1+b.Level) + " " + b.Title + "\n")
		case doctree.TextBlock:
			sb.WriteString(b.Text + "\n\n")
		case doctree.ListBlock:
			writeList(sb, b)
		case doctree.TableBlock:
			writeTable(sb, b)
		default:
			return fmt.Errorf("unknown block type %T", b)
		}
	}
	return nil
}

// writeDetails emits function detail blocks inside an example block.
func writeDetails(sb *strings.Builder, blocks []doctree.Block) error {
	for _, b := range blocks {
		switch b := b.(type) {
		case doctree.CodeBlock:
			sb.WriteString("\n....\n")
			sb.WriteString(b.Code + "\n")
			sb.WriteString("....\n")
		case doctree.TextBlock:
			sb.WriteString(b.Text + "\n")
		case doctree.ListBlock:
			writeList(sb, b)
		case doctree.TitleBlock:
			sb.WriteString("\n." + b.Title + "\n")
		case doctree.TableBlock:
			writeTable(sb, b)
		default:
			return fmt.Errorf("unknown block type %T", b)
		}
	}
	return nil
}

func writeList(sb *strings.Builder, l doctree.ListBlock) {
	sb.WriteString("\n")
	for _, item := range l.Items {
		sb.WriteString(" * " + item + "\n")
	}
	sb.WriteString("\n\n")
}

func writeTable(sb *strings.Builder, t doctree.TableBlock) {
	if len(t.Header) > 0 {
		sb.WriteString("[options=\"header\"]\n")
	}
	sb.WriteString("|===\n")
	if len(t.Header) > 0 {
		writeRow(sb, t.Header)
		sb.WriteString("\n")
	}
	for _, row := range t.Rows {
		writeRow(sb, row)
	}
	sb.WriteString("|===\n\n")
}

func writeRow(sb *strings.Builder, cells []string) {
	for i, c := range cells {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString("| " + strings.ReplaceAll(c, "|", "\\|"))
	}
	sb.WriteString("\n")
}

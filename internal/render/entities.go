package render

import (
	"strings"

	"github.com/dgallion1/doxadoc/internal/doctree"
)

const noDocumentation = "No documentation entry."

func writeFunction(sb *strings.Builder, fn *doctree.Function, depth int) error {
	sb.WriteString(heading(depth) + " " + fn.Name + "\n")
	sb.WriteString("\n")
	sb.WriteString("[cols='h,5a']\n")
	sb.WriteString("|===\n")
	sb.WriteString("| Description\n")
	sb.WriteString("| " + fn.Brief + "\n")
	sb.WriteString("\n")

	sb.WriteString("| Signature \n")
	sb.WriteString("|\n")
	sb.WriteString("[source,C]\n")
	sb.WriteString("----\n")
	sb.WriteString(fn.Definition + " " + fn.ArgsString + "\n\n")
	sb.WriteString("----\n")
	sb.WriteString("\n")

	sb.WriteString("| Parameters\n")
	sb.WriteString("|\n")
	for _, p := range fn.Params {
		if p.Direction != "" {
			sb.WriteString("*" + p.Direction + "* ")
		}
		sb.WriteString("`" + p.Type)
		if p.DeclName != "" {
			sb.WriteString(" " + p.DeclName)
		}
		sb.WriteString("`::\n")
		sb.WriteString(p.Description + "\n")
	}
	sb.WriteString("\n")

	if len(fn.Returns) > 0 {
		sb.WriteString("| Return\n")
		sb.WriteString("| ")
		for _, ret := range fn.Returns {
			sb.WriteString("* " + ret + " \n")
		}
		sb.WriteString("\n")
	}

	if len(fn.Details) == 0 {
		sb.WriteString("|===\n")
		sb.WriteString("\n")
		return nil
	}

	sb.WriteString("|===\n")
	sb.WriteString("====\n")
	sb.WriteString("*Details / Examples:* \n")
	sb.WriteString("\n")
	if err := writeDetails(sb, fn.Details); err != nil {
		return err
	}
	sb.WriteString("====\n")
	sb.WriteString("\n")
	return nil
}

func writeEnum(sb *strings.Builder, e *doctree.Enum, depth int) {
	sb.WriteString(heading(depth) + " " + e.Name + "\n")
	sb.WriteString("\n")
	sb.WriteString(e.Doc)
	sb.WriteString("\n")
	sb.WriteString("[horizontal]\n")
	for _, v := range e.Values {
		doc := v.Doc
		if doc == "" {
			doc = noDocumentation
		}
		sb.WriteString(v.Name + ":: " + doc + "\n")
	}
	sb.WriteString("\n")
}

func writeTypedef(sb *strings.Builder, td *doctree.Typedef, depth int) {
	doc := td.Doc
	if doc == "" {
		doc = noDocumentation
	}
	sb.WriteString(heading(depth) + " " + td.Name + "\n")
	sb.WriteString("\n")
	sb.WriteString("[horizontal]\n")
	sb.WriteString(td.Type + " -> " + td.Name + ":: " + doc + "\n")
	sb.WriteString("\n")
}

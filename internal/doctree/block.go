package doctree

// Block is one unit of page or function-detail content. The set of
// implementations is closed; renderers switch over them exhaustively.
type Block interface {
	block()
}

// TextBlock is a paragraph of prose.
type TextBlock struct {
	Text string
}

// CodeBlock is a verbatim listing without a trailing newline.
type CodeBlock struct {
	Code string
}

// ListBlock is a flat bulleted list.
type ListBlock struct {
	Items []string
}

// TitleBlock is a heading inside a page. Level 0 is the page title, level N
// the title of an N-th level section.
type TitleBlock struct {
	Title string
	Level int
}

// TableBlock is a table with an optional header row.
type TableBlock struct {
	Header []string
	Rows   [][]string
}

func (TextBlock) block()  {}
func (CodeBlock) block()  {}
func (ListBlock) block()  {}
func (TitleBlock) block() {}
func (TableBlock) block() {}

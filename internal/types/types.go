package types

// Cell is a single spreadsheet value. Blank cells are not Present.
type Cell struct {
	Text    string
	Present bool
}

// Text returns a present cell holding s.
func Text(s string) Cell {
	return Cell{Text: s, Present: true}
}

// Row is an ordered sequence of cells.
type Row []Cell

// At returns the cell at index i, or an absent cell when the row is shorter.
func (r Row) At(i int) Cell {
	if i < 0 || i >= len(r) {
		return Cell{}
	}
	return r[i]
}

// Strings flattens the row into plain text, absent cells becoming "".
func (r Row) Strings() []string {
	out := make([]string, len(r))
	for i, c := range r {
		out[i] = c.Text
	}
	return out
}

// NewRow builds a row of present cells.
func NewRow(values ...string) Row {
	row := make(Row, len(values))
	for i, v := range values {
		row[i] = Text(v)
	}
	return row
}

// RawTable is the first sheet of a parsed input: a header row followed by body rows.
type RawTable struct {
	Header Row
	Body   []Row
}

// MatchResult is the header of the primary table plus the body rows whose
// key matched the reference key set, in their original order.
type MatchResult struct {
	Header Row
	Rows   []Row
	Count  int
}

// Records returns the header followed by every matched row.
func (m *MatchResult) Records() [][]string {
	records := make([][]string, 0, len(m.Rows)+1)
	records = append(records, m.Header.Strings())
	for _, row := range m.Rows {
		records = append(records, row.Strings())
	}
	return records
}

// ExportPayload is a serialized MatchResult ready for delivery.
type ExportPayload struct {
	Data        []byte
	Filename    string
	ContentType string
}

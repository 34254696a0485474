package export

// Dataset is an ordered table.
type Dataset struct {
	Headers []string
	Rows    [][]string
}

// SummaryLine is a labelled value printed after the table.
type SummaryLine struct {
	Label string
	Value string
}

// Document is a titled table with trailing summary lines.
type Document struct {
	Title    string
	Subtitle string
	Table    Dataset
	Summary  []SummaryLine
}

package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument() Document {
	return Document{
		Title:    "Report card",
		Subtitle: "Núñez, Ana",
		Table: Dataset{
			Headers: []string{"Subject", "Evaluation", "Score"},
			Rows: [][]string{
				{"Math", "Quiz 2", "10.00"},
				{"Math", "Quiz 1", "8.00"},
			},
		},
		Summary: []SummaryLine{{Label: "Overall average", Value: "9.00"}},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDocument())
	require.NoError(t, err)

	reader := csv.NewReader(bytes.NewReader(out))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"Subject", "Evaluation", "Score"}, records[0])
	assert.Equal(t, []string{"Overall average", "9.00"}, records[3])
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Document{})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDocument())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

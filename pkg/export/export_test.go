package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Title: "Roster",
		Columns: []Column{
			{Key: "name", Label: "Name", Width: 2},
			{Key: "student_id", Label: "Student ID"},
			{Key: "tags"},
		},
		Rows: []map[string]string{
			{"name": "John Doe", "student_id": "A0123456X", "tags": "friends, Excelling"},
			{"name": "Alex Yeoh"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)

	want := "Name,Student ID,tags\n" +
		"John Doe,A0123456X,\"friends, Excelling\"\n" +
		"Alex Yeoh,,\n"
	assert.Equal(t, want, string(out))
}

func TestExportersRequireColumns(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
	_, err = NewPDFExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	data := sampleDataset()
	data.Rows[0]["tags"] = "a very long list of tags that will certainly not fit into the narrow column"

	out, err := NewPDFExporter().Render(data)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestColumnWidthsAreProportional(t *testing.T) {
	widths := columnWidths(sampleDataset().Columns, 100)
	require.Len(t, widths, 3)
	assert.InDelta(t, 50, widths[0], 0.001)
	assert.InDelta(t, 25, widths[1], 0.001)
	assert.InDelta(t, 25, widths[2], 0.001)
}

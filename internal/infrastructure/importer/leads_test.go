package importer_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"github.com/AchrafRT/sales-crm/internal/domain/command"
	"github.com/AchrafRT/sales-crm/internal/infrastructure/importer"
)

func TestParseLeads_CSV(t *testing.T) {
	in := "Business Name,Phone,Address\n" +
		"Café Lune, 514-555-0101 ,1 rue Main\n" +
		",,\n" +
		"Dépanneur Côté,,\n"

	rows, err := importer.ParseLeads("leads.CSV", strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, command.LeadRow{
		BusinessName: "Café Lune", BusinessPhone: "514-555-0101", BusinessAddress: "1 rue Main",
	}, importer.MapLeadFields(rows[0]))
	assert.Equal(t, "Dépanneur Côté", importer.MapLeadFields(rows[1]).BusinessName)
}

func TestParseLeads_CSVWindows1252(t *testing.T) {
	raw, err := charmap.Windows1252.NewEncoder().String("name,tel\nDépanneur Côté,555\n")
	require.NoError(t, err)

	rows, err := importer.ParseLeads("leads.csv", strings.NewReader(raw))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Dépanneur Côté", importer.MapLeadFields(rows[0]).BusinessName)
}

func TestParseLeads_XLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Company", "Telephone", "Location"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"Bar Bleu", 5145550199, "99 av. Parc"}))
	require.NoError(t, f.SetSheetRow(sheet, "A4", &[]any{"Resto Nord", "", ""}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rows, err := importer.ParseLeads("leads.xlsx", bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	first := importer.MapLeadFields(rows[0])
	assert.Equal(t, "Bar Bleu", first.BusinessName)
	assert.Equal(t, "5145550199", first.BusinessPhone)
	assert.Equal(t, "99 av. Parc", first.BusinessAddress)
	assert.Equal(t, "Resto Nord", importer.MapLeadFields(rows[1]).BusinessName)
}

func TestParseLeads_ExtensionNoSoportada(t *testing.T) {
	_, err := importer.ParseLeads("leads.pdf", strings.NewReader("x"))
	assert.ErrorIs(t, err, importer.ErrUnsupportedFile)
}

func TestMapLeadFields_BusquedaAproximada(t *testing.T) {
	row := importer.Row{
		{Key: "Store Name (legal)", Value: "Épicerie Sud"},
		{Key: "Cell Tel.", Value: "438-555-0000"},
		{Key: "Street Address", Value: "5 boul. Est"},
	}
	assert.Equal(t, command.LeadRow{
		BusinessName: "Épicerie Sud", BusinessPhone: "438-555-0000", BusinessAddress: "5 boul. Est",
	}, importer.MapLeadFields(row))
}

func TestMapLeadFields_AliasExactoTienePrioridad(t *testing.T) {
	row := importer.Row{
		{Key: "Contact Name", Value: "Ana"},
		{Key: "Business Name", Value: "Bar Bleu"},
	}
	got := importer.MapLeadFields(row)
	assert.Equal(t, "Bar Bleu", got.BusinessName)
	assert.Empty(t, got.BusinessPhone)
}

func TestChunk(t *testing.T) {
	items := make([]int, 501)
	chunks := importer.Chunk(items, 250)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 250)
	assert.Len(t, chunks[2], 1)
	assert.Nil(t, importer.Chunk([]int{}, 250))
}

func TestMapAll_DescartaFilasSinDatos(t *testing.T) {
	rows := []importer.Row{
		{{Key: "name", Value: "Bar Bleu"}},
		{{Key: "notes", Value: "sin datos de negocio"}},
	}
	got := importer.MapAll(rows)
	require.Len(t, got, 1)
	assert.Equal(t, "Bar Bleu", got[0].BusinessName)
}

func TestBatches(t *testing.T) {
	rows := make([]importer.Row, 260)
	for i := range rows {
		rows[i] = importer.Row{{Key: "name", Value: "B"}}
	}
	batches := importer.Batches(importer.MapAll(rows))
	require.Len(t, batches, 2)
	assert.Len(t, batches[0].Rows, importer.BatchSize)
	assert.Len(t, batches[1].Rows, 10)
}

func TestParseLeadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leads.csv")
	require.NoError(t, os.WriteFile(path, []byte("\ufeffbusiness_name,business_phone\nBar Bleu,555\n"), 0o644))

	rows, err := importer.ParseLeadsFile(path)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, command.LeadRow{BusinessName: "Bar Bleu", BusinessPhone: "555"}, importer.MapLeadFields(rows[0]))

	_, err = importer.ParseLeadsFile(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

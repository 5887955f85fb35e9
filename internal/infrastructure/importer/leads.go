// Package importer lee hojas de prospectos (xlsx o csv) y las mapea a filas de
// import_leads_batch.
package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/AchrafRT/sales-crm/internal/domain/command"
)

// BatchSize filas por comando import_leads_batch.
const BatchSize = 250

// ErrUnsupportedFile extensión distinta de csv o xlsx.
var ErrUnsupportedFile = errors.New("unsupported file type")

// Cell par encabezado/valor de una fila.
type Cell struct {
	Key   string
	Value string
}

// Row fila en el orden de columnas del archivo.
type Row []Cell

// ParseLeads lee el archivo según su extensión. La primera fila es el encabezado y las
// filas sin ningún valor se descartan.
func ParseLeads(filename string, r io.Reader) ([]Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("importer: leer archivo: %w", err)
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return parseCSV(data)
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return parseXLSX(data)
	default:
		return nil, ErrUnsupportedFile
	}
}

func parseCSV(data []byte) ([]Row, error) {
	var src io.Reader = bytes.NewReader(data)
	if !utf8.Valid(data) {
		// Exportaciones de Excel en Windows
		src = transform.NewReader(src, charmap.Windows1252.NewDecoder())
	}
	cr := csv.NewReader(src)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("importer: csv: %w", err)
	}
	return toRows(records), nil
}

func parseXLSX(data []byte) ([]Row, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("importer: xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if sheet == "" {
		return nil, fmt.Errorf("importer: xlsx: no worksheet found")
	}
	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("importer: xlsx: %w", err)
	}
	return toRows(records), nil
}

func toRows(records [][]string) []Row {
	if len(records) == 0 {
		return nil
	}
	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(Row, 0, len(rec))
		empty := true
		for j, v := range rec {
			key := fmt.Sprintf("col%d", j+1)
			if j < len(header) {
				key = header[j]
			}
			v = strings.TrimSpace(v)
			if v != "" {
				empty = false
			}
			row = append(row, Cell{Key: key, Value: v})
		}
		if !empty {
			rows = append(rows, row)
		}
	}
	return rows
}

// ── Mapeo de columnas ─────────────────────────────────────────────────────────

var (
	nameAliases    = []string{"business name", "business_name", "name", "company", "company name"}
	phoneAliases   = []string{"business phone", "business_phone", "phone", "telephone", "tel"}
	addressAliases = []string{"business address", "business_address", "address", "location"}
)

// MapLeadFields resuelve nombre, teléfono y dirección por alias exacto (sin distinguir
// mayúsculas). Si ninguno coincide, busca encabezados que contengan "name", "phone"/"tel"
// o "address".
func MapLeadFields(row Row) command.LeadRow {
	out := command.LeadRow{
		BusinessName:    row.lookup(nameAliases),
		BusinessPhone:   row.lookup(phoneAliases),
		BusinessAddress: row.lookup(addressAliases),
	}
	if out.BusinessName != "" || out.BusinessPhone != "" || out.BusinessAddress != "" {
		return out
	}
	for _, c := range row {
		k := strings.ToLower(c.Key)
		if out.BusinessName == "" && strings.Contains(k, "name") {
			out.BusinessName = c.Value
		}
		if out.BusinessPhone == "" && (strings.Contains(k, "phone") || strings.Contains(k, "tel")) {
			out.BusinessPhone = c.Value
		}
		if out.BusinessAddress == "" && strings.Contains(k, "address") {
			out.BusinessAddress = c.Value
		}
	}
	return out
}

func (r Row) lookup(aliases []string) string {
	for _, alias := range aliases {
		for _, c := range r {
			if strings.ToLower(strings.TrimSpace(c.Key)) == alias {
				return c.Value
			}
		}
	}
	return ""
}

// MapAll mapea las filas y descarta las que no tienen nombre, teléfono ni dirección.
func MapAll(rows []Row) []command.LeadRow {
	out := make([]command.LeadRow, 0, len(rows))
	for _, r := range rows {
		l := MapLeadFields(r)
		if l.BusinessName == "" && l.BusinessPhone == "" && l.BusinessAddress == "" {
			continue
		}
		out = append(out, l)
	}
	return out
}

// Chunk parte items en lotes de a lo sumo size elementos.
func Chunk[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = BatchSize
	}
	var out [][]T
	for len(items) > size {
		out = append(out, items[:size:size])
		items = items[size:]
	}
	if len(items) > 0 {
		out = append(out, items)
	}
	return out
}

// Batches arma los comandos import_leads_batch de a BatchSize filas.
func Batches(leads []command.LeadRow) []command.ImportLeadsBatch {
	chunks := Chunk(leads, BatchSize)
	out := make([]command.ImportLeadsBatch, 0, len(chunks))
	for _, c := range chunks {
		out = append(out, command.ImportLeadsBatch{Rows: c})
	}
	return out
}

// ParseLeadsFile lee un archivo del disco.
func ParseLeadsFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("importer: abrir %s: %w", path, err)
	}
	defer f.Close()
	return ParseLeads(path, f)
}

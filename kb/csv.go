package kb

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
)

// Column order of the export format. Readers must tolerate additional
// trailing columns so future extractions can extend the schema.
const (
	colService = iota
	colOperation
	colProperty
	colRequired
	minColumns = 4
)

// ReadRecords decodes a record stream from r. Rows with fewer than four
// columns or an unparseable required flag are rejected: the artifact is
// checked-in data, so a malformed row means a broken extraction, not a
// condition to paper over.
func ReadRecords(r io.Reader) ([]PropertyRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // forward compatible: allow trailing columns
	cr.TrimLeadingSpace = true

	var records []PropertyRecord
	for line := 1; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		if len(row) == 0 || (len(row) == 1 && row[0] == "") {
			continue
		}
		if len(row) < minColumns {
			return nil, fmt.Errorf("line %d: expected at least %d columns, got %d", line, minColumns, len(row))
		}
		required, err := strconv.ParseBool(row[colRequired])
		if err != nil {
			return nil, fmt.Errorf("line %d: bad required flag %q", line, row[colRequired])
		}
		if row[colService] == "" || row[colOperation] == "" || row[colProperty] == "" {
			return nil, fmt.Errorf("line %d: empty identifier column", line)
		}
		records = append(records, PropertyRecord{
			Service:   row[colService],
			Operation: row[colOperation],
			Property:  row[colProperty],
			Required:  required,
		})
	}
	return records, nil
}

// ReadRecordsFile reads one export file.
func ReadRecordsFile(path string) ([]PropertyRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	records, err := ReadRecords(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// WriteRecords encodes records to w in the stable column order. The input
// is sorted first so repeated extractions produce byte-identical output.
func WriteRecords(w io.Writer, records []PropertyRecord) error {
	sorted := make([]PropertyRecord, len(records))
	copy(sorted, records)
	SortRecords(sorted)

	cw := csv.NewWriter(w)
	for _, rec := range sorted {
		row := []string{rec.Service, rec.Operation, rec.Property, strconv.FormatBool(rec.Required)}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write record %s/%s: %w", rec.Service, rec.Operation, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// SortRecords orders records by (service, operation, property), the
// canonical artifact order.
func SortRecords(records []PropertyRecord) {
	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.Service != b.Service {
			return a.Service < b.Service
		}
		if a.Operation != b.Operation {
			return a.Operation < b.Operation
		}
		return a.Property < b.Property
	})
}

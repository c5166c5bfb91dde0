package parsers

import (
	"encoding/csv"
	"fmt"
	"io"
)

// Row is one raw gain/loss export line with its seven ordered fields, still
// as strings exactly as the broker emitted them.
type Row struct {
	Symbol       string
	Description  string
	Quantity     string
	AcquiredDate string
	SoldDate     string
	Proceeds     string
	Cost         string
}

// RowSource yields raw rows for the transaction builder. Implementations are
// responsible for skipping any header line.
type RowSource interface {
	Rows() ([]Row, error)
}

type csvSource struct {
	r io.Reader
}

// NewCSVSource returns a RowSource over a brokerage gain/loss CSV export.
// The first line is treated as a header and discarded.
func NewCSVSource(r io.Reader) RowSource {
	return &csvSource{r: r}
}

func (s *csvSource) Rows() ([]Row, error) {
	reader := csv.NewReader(s.r)
	reader.FieldsPerRecord = -1

	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV records: %w", err)
	}

	var rows []Row
	for _, record := range records {
		if len(record) < 7 {
			continue
		}
		rows = append(rows, Row{
			Symbol:       record[0],
			Description:  record[1],
			Quantity:     record[2],
			AcquiredDate: record[3],
			SoldDate:     record[4],
			Proceeds:     record[5],
			Cost:         record[6],
		})
	}
	return rows, nil
}

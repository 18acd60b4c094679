package ledger

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

// utf8BOM makes spreadsheet tools detect the encoding correctly
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var csvHeader = []string{"Time", "Type", "Description", "Amount", "Balance", "Counterparty", "Note", "Transaction ID"}

// WriteCSV serialises the filtered ledger view as UTF-8 CSV with a BOM
// prefix. Quoting follows RFC 4180 via encoding/csv, so embedded commas,
// quotes and newlines survive a round-trip.
func WriteCSV(w io.Writer, entries []Entry) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, e := range entries {
		txID := ""
		if e.TxID != nil {
			txID = e.TxID.String()
		}
		row := []string{
			e.CreatedAt.Format(time.RFC3339),
			e.Type,
			e.DisplayName,
			strconv.FormatInt(e.Amount, 10),
			strconv.FormatInt(e.Balance, 10),
			e.Counterparty,
			e.Note,
			txID,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

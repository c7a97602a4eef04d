package retrieval

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"

	"github.com/rakshil17/SENG3011-OMEGA/internal/domain"
)

// normalizeCSV переводит исходный блоб (CSV с заголовком) в пейлоад записи:
// JSON-массив объектов, имена полей — из заголовка, значения — строками.
// Нормализация выполняется один раз, при наполнении; попадания отдают
// сохранённый пейлоад как есть.
func normalizeCSV(raw []byte) (json.RawMessage, error) {
	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: malformed blob: %v", domain.ErrInfra, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty blob", domain.ErrInfra)
	}

	header := records[0]
	rows := make([]domain.Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(domain.Row, len(header))
		for i, field := range rec {
			if i >= len(header) {
				break
			}
			row[header[i]] = field
		}
		rows = append(rows, row)
	}

	payload, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("%w: encode payload: %v", domain.ErrInfra, err)
	}
	return payload, nil
}

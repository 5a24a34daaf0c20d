package rows

import (
	"errors"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"tablegen/models"
)

// ChunkSize is the number of rows that fit on one exported page.
const ChunkSize = 18

var ErrPositionOutOfRange = errors.New("row position out of range")

// Store is the ordered row sequence. The zero value is empty and ready to use.
type Store struct {
	rows   []models.Row
	lastID int64
}

// Len returns the number of rows.
func (s *Store) Len() int {
	return len(s.rows)
}

// At returns a copy of the row at position.
func (s *Store) At(position int) (models.Row, error) {
	if position < 0 || position >= len(s.rows) {
		return models.Row{}, ErrPositionOutOfRange
	}
	return s.rows[position].Clone(), nil
}

// NextID returns a creation-time derived id strictly greater than any id issued before.
func (s *Store) NextID(now time.Time) int64 {
	id := now.UnixNano()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

// Append adds row to the end. A zero ID is replaced with NextID(time.Now()).
func (s *Store) Append(row models.Row) models.Row {
	if row.ID == 0 {
		row.ID = s.NextID(time.Now())
	} else if row.ID > s.lastID {
		s.lastID = row.ID
	}
	row = row.Clone()
	s.rows = append(s.rows, row)
	return row
}

// Delete removes the row at position. Total rows drop the position from their
// referenced set and shift later references down by one. Their value is kept
// as originally summed.
func (s *Store) Delete(position int) error {
	if position < 0 || position >= len(s.rows) {
		return ErrPositionOutOfRange
	}
	out := make([]models.Row, 0, len(s.rows)-1)
	for i, row := range s.rows {
		if i == position {
			continue
		}
		if row.IsTotal() {
			row.TotaledRows = renumber(row.TotaledRows, position)
		}
		out = append(out, row)
	}
	s.rows = out
	return nil
}

func renumber(refs []int, deleted int) []int {
	out := make([]int, 0, len(refs))
	for _, p := range refs {
		switch {
		case p == deleted:
			continue
		case p > deleted:
			out = append(out, p-1)
		default:
			out = append(out, p)
		}
	}
	return out
}

// Rows returns a deep copy of all rows in order.
func (s *Store) Rows() []models.Row {
	out := make([]models.Row, len(s.rows))
	for i, row := range s.rows {
		out[i] = row.Clone()
	}
	return out
}

// Clone returns an independent copy of the store.
func (s *Store) Clone() Store {
	return Store{rows: s.Rows(), lastID: s.lastID}
}

// Sum adds the values of the line rows at positions. Subheading and total
// rows contribute 0, as do blank and non-numeric values.
func (s *Store) Sum(positions []int) (float64, error) {
	total := decimal.Zero
	var inf float64
	sawInf := false
	for _, p := range positions {
		row, err := s.At(p)
		if err != nil {
			return 0, err
		}
		if !row.IsLine() {
			continue
		}
		v := row.Value.OrZero()
		if math.IsInf(v, 0) {
			inf += v
			sawInf = true
			continue
		}
		total = total.Add(decimal.NewFromFloat(v))
	}
	if sawInf {
		return inf, nil
	}
	return total.InexactFloat64(), nil
}

// Chunks splits rows into consecutive slices of at most size rows.
func Chunks(all []models.Row, size int) [][]models.Row {
	if size <= 0 {
		size = ChunkSize
	}
	chunks := make([][]models.Row, 0, (len(all)+size-1)/size)
	for i := 0; i < len(all); i += size {
		end := i + size
		if end > len(all) {
			end = len(all)
		}
		chunks = append(chunks, all[i:end])
	}
	return chunks
}

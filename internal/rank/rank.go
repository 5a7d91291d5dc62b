// Package rank orders evaluation records into the final leaderboard.
package rank

import (
	"sort"

	"github.com/rotisserie/eris"

	"github.com/sharp-standards/screen-cli/internal/model"
)

// ErrEmptyBatch is returned when there are no records to rank.
var ErrEmptyBatch = eris.New("rank: empty batch")

// Batch is an ordered set of records, highest score first. Ties keep original
// submission order. Duplicate identities are ranked independently.
type Batch struct {
	Records []model.Record
}

// Rank sorts records by score descending with a stable sort, so equal scores
// preserve submission order.
func Rank(records []model.Record) (Batch, error) {
	if len(records) == 0 {
		return Batch{}, ErrEmptyBatch
	}

	out := make([]model.Record, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	return Batch{Records: out}, nil
}

// Leader returns the top-ranked candidate.
func (b Batch) Leader() model.Record {
	return b.Records[0]
}

// Top returns at most k leading records.
func (b Batch) Top(k int) []model.Record {
	if k > len(b.Records) {
		k = len(b.Records)
	}
	return b.Records[:k]
}

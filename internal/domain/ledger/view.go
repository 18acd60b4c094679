package ledger

import (
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Sortable fields and orders for the ledger view
const (
	SortByTime   = "time"
	SortByAmount = "amount"
	OrderAsc     = "asc"
	OrderDesc    = "desc"
)

// Filter keeps entries containing the term (case-insensitive) in at least
// one of: display name, note, counterparty, transaction id, or the amount
// rendered as a string. An empty term returns the input unchanged.
func Filter(entries []Entry, term string) []Entry {
	if term == "" {
		return entries
	}
	needle := strings.ToLower(term)

	filtered := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if entryMatches(e, needle) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

func entryMatches(e Entry, needle string) bool {
	fields := []string{
		e.DisplayName,
		e.Note,
		e.Counterparty,
		strconv.FormatInt(e.Amount, 10),
	}
	if e.TxID != nil {
		fields = append(fields, e.TxID.String())
	}
	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

// Sort orders entries by the given field. Amounts compare numerically,
// so negative amounts order below positive ones. Unknown fields fall
// back to time. The sort is stable.
func Sort(entries []Entry, field, order string) []Entry {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)

	asc := order == OrderAsc
	less := func(i, j int) bool {
		var before bool
		switch field {
		case SortByAmount:
			before = sorted[i].Amount < sorted[j].Amount
		default:
			before = sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
		}
		if asc {
			return before
		}
		return !before && !entryEqualKey(sorted[i], sorted[j], field)
	}
	sort.SliceStable(sorted, less)
	return sorted
}

func entryEqualKey(a, b Entry, field string) bool {
	if field == SortByAmount {
		return a.Amount == b.Amount
	}
	return a.CreatedAt.Equal(b.CreatedAt)
}

// MergeTransfers pairs an outbound and an inbound record sharing a
// transaction id into one presentation entry. Unpaired transfers and
// all other entries pass through untouched. Derivation only: the
// underlying records are never modified.
func MergeTransfers(entries []Entry) []Entry {
	type pair struct {
		out *Entry
		in  *Entry
	}
	pairs := make(map[uuid.UUID]*pair)
	for i := range entries {
		e := &entries[i]
		if e.TxID == nil {
			continue
		}
		switch e.Type {
		case string(TypeTransferOut):
			p := pairs[*e.TxID]
			if p == nil {
				p = &pair{}
				pairs[*e.TxID] = p
			}
			p.out = e
		case string(TypeTransferIn):
			p := pairs[*e.TxID]
			if p == nil {
				p = &pair{}
				pairs[*e.TxID] = p
			}
			p.in = e
		}
	}

	merged := make([]Entry, 0, len(entries))
	seen := make(map[uuid.UUID]bool)
	for _, e := range entries {
		if e.TxID != nil {
			if p := pairs[*e.TxID]; p != nil && p.out != nil && p.in != nil {
				if seen[*e.TxID] {
					continue
				}
				seen[*e.TxID] = true
				merged = append(merged, mergeEntry(p.out, p.in))
				continue
			}
		}
		merged = append(merged, e)
	}
	return merged
}

func mergeEntry(out, in *Entry) Entry {
	e := Entry{
		ID:           out.ID,
		DisplayName:  "Transfer",
		Type:         "transfer",
		Amount:       in.Amount,
		Balance:      out.Balance,
		Counterparty: in.Counterparty + " -> " + out.Counterparty,
		Note:         out.Note,
		TxID:         out.TxID,
		CreatedAt:    out.CreatedAt,
		Merged:       true,
	}
	return e
}

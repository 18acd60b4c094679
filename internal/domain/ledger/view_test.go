package ledger

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func entryAt(name string, amount int64, minute int) Entry {
	return Entry{
		ID:          uuid.New(),
		DisplayName: name,
		Amount:      amount,
		CreatedAt:   time.Date(2026, 7, 1, 12, minute, 0, 0, time.UTC),
	}
}

func TestFilterEmptyTermReturnsInput(t *testing.T) {
	entries := []Entry{entryAt("Transfer", 10, 0), entryAt("Grant", -5, 1)}

	got := Filter(entries, "")
	if len(got) != len(entries) {
		t.Fatalf("expected %d entries, got %d", len(entries), len(got))
	}
}

func TestFilterIsCaseInsensitive(t *testing.T) {
	entries := []Entry{
		entryAt("Booth Reward", 25, 0),
		entryAt("Transfer", 10, 1),
	}

	got := Filter(entries, "BOOTH")
	if len(got) != 1 {
		t.Fatalf("expected 1 match, got %d", len(got))
	}
	if got[0].DisplayName != "Booth Reward" {
		t.Errorf("unexpected match: %s", got[0].DisplayName)
	}
}

func TestFilterMatchesAllFields(t *testing.T) {
	txID := uuid.New()
	e := Entry{
		DisplayName:  "Transfer",
		Note:         "lunch money",
		Counterparty: "Alice",
		Amount:       -150,
		TxID:         &txID,
	}
	entries := []Entry{e}

	cases := []string{"lunch", "alice", "-150", txID.String()[:8]}
	for _, term := range cases {
		if got := Filter(entries, term); len(got) != 1 {
			t.Errorf("term %q: expected 1 match, got %d", term, len(got))
		}
	}

	if got := Filter(entries, "no-such-thing"); len(got) != 0 {
		t.Errorf("expected no matches, got %d", len(got))
	}
}

func TestFilterDoesNotModifyInput(t *testing.T) {
	entries := []Entry{entryAt("Grant", 100, 0), entryAt("Transfer", 10, 1)}

	Filter(entries, "grant")
	if entries[0].DisplayName != "Grant" || entries[1].DisplayName != "Transfer" {
		t.Fatal("input slice was modified")
	}
}

func TestSortByAmountIsNumeric(t *testing.T) {
	entries := []Entry{
		entryAt("a", 100, 0),
		entryAt("b", -500, 1),
		entryAt("c", 20, 2),
	}

	asc := Sort(entries, SortByAmount, OrderAsc)
	if asc[0].Amount != -500 || asc[1].Amount != 20 || asc[2].Amount != 100 {
		t.Fatalf("ascending order wrong: %d, %d, %d", asc[0].Amount, asc[1].Amount, asc[2].Amount)
	}

	desc := Sort(entries, SortByAmount, OrderDesc)
	if desc[0].Amount != 100 || desc[1].Amount != 20 || desc[2].Amount != -500 {
		t.Fatalf("descending order wrong: %d, %d, %d", desc[0].Amount, desc[1].Amount, desc[2].Amount)
	}
}

func TestSortDescIsReverseOfAsc(t *testing.T) {
	entries := []Entry{
		entryAt("a", 3, 2),
		entryAt("b", 1, 0),
		entryAt("c", 2, 1),
	}

	asc := Sort(entries, SortByTime, OrderAsc)
	desc := Sort(entries, SortByTime, OrderDesc)

	for i := range asc {
		if asc[i].ID != desc[len(desc)-1-i].ID {
			t.Fatalf("desc is not the reverse of asc at index %d", i)
		}
	}
}

func TestSortIsStableOnEqualKeys(t *testing.T) {
	entries := []Entry{
		entryAt("first", 50, 0),
		entryAt("second", 50, 1),
		entryAt("third", 50, 2),
	}

	got := Sort(entries, SortByAmount, OrderAsc)
	if got[0].DisplayName != "first" || got[1].DisplayName != "second" || got[2].DisplayName != "third" {
		t.Fatalf("equal-amount entries were reordered: %s, %s, %s",
			got[0].DisplayName, got[1].DisplayName, got[2].DisplayName)
	}

	got = Sort(entries, SortByAmount, OrderDesc)
	if got[0].DisplayName != "first" || got[1].DisplayName != "second" || got[2].DisplayName != "third" {
		t.Fatalf("equal-amount entries were reordered on desc: %s, %s, %s",
			got[0].DisplayName, got[1].DisplayName, got[2].DisplayName)
	}
}

func TestSortDoesNotModifyInput(t *testing.T) {
	entries := []Entry{entryAt("a", 2, 1), entryAt("b", 1, 0)}

	Sort(entries, SortByAmount, OrderAsc)
	if entries[0].DisplayName != "a" {
		t.Fatal("input slice was reordered")
	}
}

func TestMergeTransfersPairsByTxID(t *testing.T) {
	txID := uuid.New()
	when := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
	out := Entry{
		ID:           uuid.New(),
		Type:         string(TypeTransferOut),
		Amount:       -110,
		Balance:      890,
		Counterparty: "Bob",
		TxID:         &txID,
		CreatedAt:    when,
	}
	in := Entry{
		ID:           uuid.New(),
		Type:         string(TypeTransferIn),
		Amount:       100,
		Balance:      600,
		Counterparty: "Alice",
		TxID:         &txID,
		CreatedAt:    when,
	}
	other := entryAt("Grant", 50, 5)

	got := MergeTransfers([]Entry{out, in, other})
	if len(got) != 2 {
		t.Fatalf("expected 2 entries after merge, got %d", len(got))
	}

	m := got[0]
	if !m.Merged {
		t.Fatal("merged entry not flagged")
	}
	if m.Amount != 100 {
		t.Errorf("merged amount = %d, want the inbound 100", m.Amount)
	}
	if m.Balance != 890 {
		t.Errorf("merged balance = %d, want the outbound 890", m.Balance)
	}
	if m.Counterparty != "Alice -> Bob" {
		t.Errorf("merged counterparty = %q", m.Counterparty)
	}
	if got[1].DisplayName != "Grant" {
		t.Errorf("non-transfer entry did not pass through")
	}
}

func TestMergeTransfersLeavesUnpairedAlone(t *testing.T) {
	txID := uuid.New()
	out := Entry{
		ID:     uuid.New(),
		Type:   string(TypeTransferOut),
		Amount: -50,
		TxID:   &txID,
	}

	got := MergeTransfers([]Entry{out})
	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(got))
	}
	if got[0].Merged {
		t.Fatal("unpaired transfer must not be merged")
	}
}

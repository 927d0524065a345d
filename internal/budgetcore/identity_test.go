package budgetcore

import "testing"

func TestEnsureRowIDs(t *testing.T) {
	rows := []Row{
		{RID: "keep-me", Client: "A"},
		{RID: "", Client: "B"},
		{RID: "   ", Client: "C"},
	}
	out := EnsureRowIDs(rows)
	if out[0].RID != "keep-me" {
		t.Errorf("existing id was replaced: %q", out[0].RID)
	}
	if out[1].RID == "" || out[2].RID == "" {
		t.Error("missing ids were not assigned")
	}
	if out[1].RID == out[2].RID {
		t.Error("assigned ids are not unique")
	}
}

func TestEnsureRowIDsIdempotent(t *testing.T) {
	first := EnsureRowIDs([]Row{{Client: "A"}, {Client: "B"}})
	second := EnsureRowIDs(first)
	for i := range first {
		if first[i].RID != second[i].RID {
			t.Errorf("row %d id changed on second pass: %q != %q", i, first[i].RID, second[i].RID)
		}
	}
}

func TestMerge(t *testing.T) {
	existing := []Row{
		{RID: "a", Client: "A", Qty: 1},
		{RID: "b", Client: "B", Qty: 2},
	}
	edited := []Row{{RID: "a", Client: "A", Qty: 99}}

	merged := Merge(existing, edited, []string{"b"})
	if len(merged) != 1 {
		t.Fatalf("got %d rows, want 1", len(merged))
	}
	if merged[0].RID != "a" || merged[0].Qty != 99 {
		t.Errorf("edited row did not replace existing: %+v", merged[0])
	}
}

func TestMergeAppendsUnmatchedEdits(t *testing.T) {
	existing := []Row{{RID: "a", Client: "A"}}
	edited := []Row{{RID: "new", Client: "N"}}
	merged := Merge(existing, edited, nil)
	if len(merged) != 2 {
		t.Fatalf("got %d rows, want 2", len(merged))
	}
	if merged[1].RID != "new" {
		t.Errorf("unmatched edit should append, got %+v", merged[1])
	}
}

func TestMergePreservesUntouchedOrder(t *testing.T) {
	existing := []Row{{RID: "a"}, {RID: "b"}, {RID: "c"}}
	merged := Merge(existing, []Row{{RID: "b", Client: "edited"}}, []string{"a"})
	if len(merged) != 2 || merged[0].RID != "b" || merged[1].RID != "c" {
		t.Errorf("unexpected merge result: %+v", merged)
	}
	if merged[0].Client != "edited" {
		t.Errorf("edit not applied in place")
	}
}

func TestMergeDeleteWinsOverEdit(t *testing.T) {
	existing := []Row{{RID: "a"}}
	merged := Merge(existing, []Row{{RID: "a", Client: "edited"}}, []string{"a"})
	if len(merged) != 0 {
		t.Errorf("deleted row must not be resurrected by an edit: %+v", merged)
	}
}

package features

import "testing"

func TestFitVocabulary_InsertionOrder(t *testing.T) {
	v := FitVocabulary([]string{"Dining Out", "Groceries", "Dining Out", "Travel"})

	want := []string{"Dining Out", "Groceries", "Travel"}
	got := v.Classes()
	if len(got) != len(want) {
		t.Fatalf("classes = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("class %d = %q, want %q (codes are first-occurrence order)", i, got[i], want[i])
		}
	}
}

func TestFitVocabulary_MissingSentinel(t *testing.T) {
	v := FitVocabulary([]string{"Groceries", "", "Health"})

	code, ok := v.Encode(MissingSentinel)
	if !ok {
		t.Fatal("sentinel should receive a code like any other category")
	}
	if code != 1 {
		t.Errorf("sentinel code = %d, want 1 (its first-occurrence position)", code)
	}
}

func TestApply_UnseenFallsBackToCodeZero(t *testing.T) {
	v := NewVocabulary([]string{"Groceries", "Dining Out"})

	codes, unseen := v.Apply([]string{"Groceries", "Jet Ski Rental", "Dining Out"})
	if unseen != 1 {
		t.Errorf("unseen = %d, want 1", unseen)
	}
	if codes[1] != UnseenCode {
		t.Errorf("unseen value code = %v, want %d", codes[1], UnseenCode)
	}
	if codes[0] != 0 || codes[2] != 1 {
		t.Errorf("known codes = %v", codes)
	}
}

func TestDecode(t *testing.T) {
	v := NewVocabulary([]string{"need", "want"})

	label, err := v.Decode(1)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if label != "want" {
		t.Errorf("Decode(1) = %q, want %q", label, "want")
	}
	if _, err := v.Decode(2); err == nil {
		t.Error("expected error for out-of-range code")
	}
}

package incident

import "testing"

func TestFoldStats(t *testing.T) {
	s := FoldStats([]GroupCount{
		{Category: CategoryFire, Status: StatusPending, Priority: PriorityNormal, Count: 2},
		{Category: CategoryFire, Status: StatusResolved, Priority: PriorityCritical, Count: 1},
		{Category: CategoryTheft, Status: StatusActive, Priority: PriorityHigh, Count: 3},
		{Category: CategoryNoise, Status: StatusPending, Priority: PriorityLow, Count: 0},
	})

	if s.Total != 6 || s.Pending != 2 || s.Active != 3 || s.Resolved != 1 || s.Critical != 1 {
		t.Errorf("unexpected totals %+v", s)
	}
	if len(s.ByCategory) != 2 || s.ByCategory["fire"] != 3 || s.ByCategory["theft"] != 3 {
		t.Errorf("byCategory = %v", s.ByCategory)
	}
}

func TestFoldStatsEmpty(t *testing.T) {
	s := FoldStats(nil)
	if s.Total != 0 || s.ByCategory == nil || len(s.ByCategory) != 0 {
		t.Errorf("unexpected %+v", s)
	}
}

func TestParseEnums(t *testing.T) {
	if c, ok := ParseCategory(" Fire "); !ok || c != CategoryFire {
		t.Errorf("ParseCategory = %q %v", c, ok)
	}
	if _, ok := ParseCategory("ufo"); ok {
		t.Error("unknown category accepted")
	}
	if len(Categories()) != 23 {
		t.Errorf("expected 23 categories, got %d", len(Categories()))
	}
	if _, ok := ParsePriority("urgent"); ok {
		t.Error("unknown priority accepted")
	}
	if s, ok := ParseStatus("RESOLVED"); !ok || s != StatusResolved {
		t.Errorf("ParseStatus = %q %v", s, ok)
	}
}

func TestFormValue(t *testing.T) {
	var v FormValue
	for raw, want := range map[string]string{`"12.5"`: "12.5", `12.5`: "12.5", `true`: "true", `null`: ""} {
		if err := v.UnmarshalJSON([]byte(raw)); err != nil {
			t.Fatalf("%s: %v", raw, err)
		}
		if v.String() != want {
			t.Errorf("%s: got %q, want %q", raw, v.String(), want)
		}
	}

	for _, bad := range []FormValue{"", "abc", "NaN", "Inf"} {
		if _, ok := bad.Float(); ok {
			t.Errorf("%q parsed as a number", bad)
		}
	}
	if f, ok := FormValue(" -74.006 ").Float(); !ok || f != -74.006 {
		t.Errorf("Float = %v %v", f, ok)
	}
}

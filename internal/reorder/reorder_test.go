package reorder

import (
	"slices"
	"strings"
	"testing"
)

type item struct {
	ID    string
	Genre string
}

func itemKey(i item) string { return i.ID }

func self(s string) string { return s }

func split(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}

func TestReconcile(t *testing.T) {
	t.Run("Filtered", func(t *testing.T) {
		tc := []struct {
			name      string
			canonical string
			moved     string
			target    string
			want      string
		}{
			{name: "insert before target", canonical: "A,B,C,D,E", moved: "C", target: "E", want: "A,B,D,C,E"},
			{name: "move to front", canonical: "A,B,C,D,E", moved: "E", target: "A", want: "E,A,B,C,D"},
			{name: "target directly after", canonical: "A,B,C", moved: "A", target: "B", want: "A,B,C"},
			{name: "target missing appends", canonical: "A,B,C,D", moved: "B", target: "Z", want: "A,C,D,B"},
			{name: "moved missing", canonical: "A,B,C", moved: "Z", target: "A", want: "A,B,C"},
			{name: "moved onto itself", canonical: "A,B,C", moved: "B", target: "B", want: "A,B,C"},
			{name: "first onto itself", canonical: "A,B,C", moved: "A", target: "A", want: "A,B,C"},
			{name: "last onto itself", canonical: "A,B,C", moved: "C", target: "C", want: "A,B,C"},
			{name: "moved and target missing", canonical: "A,B,C", moved: "Z", target: "Y", want: "A,B,C"},
			{name: "empty", canonical: "", moved: "A", target: "B", want: ""},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				got := Reconcile(split(tt.canonical), self, tt.moved, tt.target, true)
				if strings.Join(got, ",") != tt.want {
					t.Errorf("expected %s, got %s", tt.want, strings.Join(got, ","))
				}
			})
		}
	})

	t.Run("Unfiltered", func(t *testing.T) {
		tc := []struct {
			name   string
			moved  string
			target string
			want   string
		}{
			{name: "forward", moved: "B", target: "D", want: "A,C,D,B,E,F"},
			{name: "backward", moved: "E", target: "B", want: "A,E,B,C,D,F"},
			{name: "same position", moved: "C", target: "C", want: "A,B,C,D,E,F"},
			{name: "first onto itself", moved: "A", target: "A", want: "A,B,C,D,E,F"},
			{name: "moved and target missing", moved: "Z", target: "Y", want: "A,B,C,D,E,F"},
			{name: "target missing appends", moved: "A", target: "Z", want: "B,C,D,E,F,A"},
			{name: "moved missing", moved: "Z", target: "A", want: "A,B,C,D,E,F"},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				got := Reconcile(split("A,B,C,D,E,F"), self, tt.moved, tt.target, false)
				if strings.Join(got, ",") != tt.want {
					t.Errorf("expected %s, got %s", tt.want, strings.Join(got, ","))
				}
			})
		}
	})

	t.Run("Unfiltered Matches Splice", func(t *testing.T) {
		canonical := split("A,B,C,D,E,F")

		spliced := slices.Clone(canonical)
		moved := spliced[2]
		spliced = slices.Delete(spliced, 2, 3)
		spliced = slices.Insert(spliced, 5, moved)

		got := Reconcile(canonical, self, canonical[2], canonical[5], false)
		if !slices.Equal(got, spliced) {
			t.Errorf("expected %v, got %v", spliced, got)
		}
	})

	t.Run("Preserves Hidden Items", func(t *testing.T) {
		canonical := []item{
			{"A", "drama"}, {"B", "horror"}, {"C", "drama"},
			{"D", "horror"}, {"E", "drama"}, {"F", "comedy"},
		}
		drama := func(i item) bool { return i.Genre == "drama" }

		view := Filter(canonical, drama)
		got := Reconcile(canonical, itemKey, view[2].ID, view[0].ID, true)

		var hidden []string
		for _, i := range got {
			if !drama(i) {
				hidden = append(hidden, i.ID)
			}
		}
		if strings.Join(hidden, ",") != "B,D,F" {
			t.Errorf("hidden items changed order: %v", hidden)
		}
		if got[0].ID != "E" || got[1].ID != "A" {
			t.Errorf("expected E before A, got %v", got)
		}
	})

	t.Run("Bijection On Keys", func(t *testing.T) {
		canonical := split("A,B,C,D,E,F,G")
		for _, filtered := range []bool{true, false} {
			for _, moved := range slices.Concat(canonical, []string{"Z"}) {
				for _, target := range slices.Concat(canonical, []string{"Y"}) {
					got := Reconcile(canonical, self, moved, target, filtered)

					sorted := slices.Clone(got)
					slices.Sort(sorted)
					if !slices.Equal(sorted, canonical) {
						t.Fatalf("move %s to %s (filtered %v) lost or duplicated keys: %v", moved, target, filtered, got)
					}
				}
			}
		}
	})

	t.Run("Self Move Keeps Order", func(t *testing.T) {
		canonical := split("A,B,C,D,E")
		for _, filtered := range []bool{true, false} {
			for _, k := range canonical {
				if got := Reconcile(canonical, self, k, k, filtered); !slices.Equal(got, canonical) {
					t.Errorf("move %s onto itself (filtered %v) reordered the list: %v", k, filtered, got)
				}
			}
		}
	})

	t.Run("Does Not Mutate Input", func(t *testing.T) {
		canonical := split("A,B,C,D,E")
		before := slices.Clone(canonical)

		Reconcile(canonical, self, "C", "A", true)
		Reconcile(canonical, self, "A", "E", false)
		Reconcile(canonical, self, "A", "Z", true)

		if !slices.Equal(canonical, before) {
			t.Errorf("input was mutated: %v", canonical)
		}
	})
}

func TestMove(t *testing.T) {
	tc := []struct {
		name     string
		from, to int
		want     string
	}{
		{name: "forward", from: 0, to: 2, want: "B,C,A,D"},
		{name: "backward", from: 3, to: 1, want: "A,D,B,C"},
		{name: "noop", from: 1, to: 1, want: "A,B,C,D"},
		{name: "from out of range", from: 4, to: 0, want: "A,B,C,D"},
		{name: "to out of range", from: 0, to: -1, want: "A,B,C,D"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			items := split("A,B,C,D")
			got := Move(items, tt.from, tt.to)
			if strings.Join(got, ",") != tt.want {
				t.Errorf("expected %s, got %s", tt.want, strings.Join(got, ","))
			}
			if strings.Join(items, ",") != "A,B,C,D" {
				t.Errorf("input was mutated: %v", items)
			}
		})
	}
}

func TestSafeMove(t *testing.T) {
	t.Run("clean move", func(t *testing.T) {
		got, dupes := SafeMove(split("A,B,C"), self, 0, 2)
		if strings.Join(got, ",") != "B,C,A" || dupes != 0 {
			t.Errorf("unexpected result %v, %d", got, dupes)
		}
	})

	t.Run("drops duplicates after moving", func(t *testing.T) {
		got, dupes := SafeMove(split("A,B,A,C"), self, 3, 0)
		if strings.Join(got, ",") != "C,A,B" || dupes != 1 {
			t.Errorf("unexpected result %v, %d", got, dupes)
		}
	})

	t.Run("same index is unchanged", func(t *testing.T) {
		got, dupes := SafeMove(split("A,B,A"), self, 1, 1)
		if strings.Join(got, ",") != "A,B,A" || dupes != 0 {
			t.Errorf("unexpected result %v, %d", got, dupes)
		}
	})

	t.Run("out of range is unchanged", func(t *testing.T) {
		got, dupes := SafeMove(split("A,B"), self, 0, 5)
		if strings.Join(got, ",") != "A,B" || dupes != 0 {
			t.Errorf("unexpected result %v, %d", got, dupes)
		}
	})
}

func TestDedupe(t *testing.T) {
	got, dupes := Dedupe(split("A,B,A,C"), self)
	if strings.Join(got, ",") != "A,B,C" {
		t.Errorf("expected A,B,C, got %v", got)
	}
	if dupes != 1 {
		t.Errorf("expected 1 duplicate, got %d", dupes)
	}

	kept, dupes := Dedupe([]item{{"A", "x"}, {"A", "y"}, {"A", "z"}}, itemKey)
	if len(kept) != 1 || kept[0].Genre != "x" || dupes != 2 {
		t.Errorf("expected first occurrence kept, got %v (%d)", kept, dupes)
	}
}

func TestLookup(t *testing.T) {
	items := split("A,B,C")

	if i := IndexOf(items, self, "C"); i != 2 {
		t.Errorf("expected 2, got %d", i)
	}
	if i := IndexOf(items, self, "Z"); i != -1 {
		t.Errorf("expected -1, got %d", i)
	}
	if !Contains(items, self, "A") || Contains(items, self, "Z") {
		t.Error("unexpected Contains result")
	}
}

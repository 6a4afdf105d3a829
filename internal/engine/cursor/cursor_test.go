package cursor

import "testing"

func TestTransformOffset(t *testing.T) {
	tests := []struct {
		name   string
		offset ByteOffset
		edit   Edit
		want   ByteOffset
	}{
		{"insert before", 10, Edit{Start: 2, End: 2, NewLen: 3}, 13},
		{"insert at", 10, Edit{Start: 10, End: 10, NewLen: 3}, 10},
		{"insert after", 10, Edit{Start: 12, End: 12, NewLen: 3}, 10},
		{"delete before", 10, Edit{Start: 2, End: 5}, 7},
		{"delete spanning", 10, Edit{Start: 8, End: 12}, 8},
		{"delete ending at", 10, Edit{Start: 8, End: 10}, 8},
		{"replace before", 10, Edit{Start: 0, End: 4, NewLen: 1}, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TransformOffset(tt.offset, tt.edit); got != tt.want {
				t.Errorf("TransformOffset() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSetOrderingAndMerge(t *testing.T) {
	s := NewSet(10)
	primary := s.Primary()
	s.Add(2)
	s.Add(20)
	s.Add(2)

	all := s.All()
	if len(all) != 3 || all[0].Offset() != 2 || all[1] != primary || all[2].Offset() != 20 {
		t.Fatalf("All() = %v", offsets(all))
	}

	// Deleting [0, 15) collapses the first two carets onto 0.
	s.Transform(Edit{Start: 0, End: 15})
	all = s.All()
	if len(all) != 2 {
		t.Fatalf("after merge All() = %v, want 2 carets", offsets(all))
	}
	if all[0] != primary {
		t.Error("merge must keep the primary caret")
	}
	if all[1].Offset() != 5 {
		t.Errorf("second caret offset = %d, want 5", all[1].Offset())
	}
}

func TestSetRemove(t *testing.T) {
	s := NewSet(0)
	if s.Remove(s.Primary()) {
		t.Error("removing the last caret should fail")
	}
	c := s.Add(5)
	s.Remove(s.Primary())
	if s.Primary() != c {
		t.Error("primary should move to the remaining caret")
	}
	s.Add(9)
	s.RemoveSecondary()
	if s.Count() != 1 {
		t.Errorf("Count() = %d after RemoveSecondary", s.Count())
	}
}

func offsets(cs []*Caret) []ByteOffset {
	out := make([]ByteOffset, len(cs))
	for i, c := range cs {
		out[i] = c.Offset()
	}
	return out
}

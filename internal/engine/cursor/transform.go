package cursor

// Edit describes a replacement of [Start, End) by NewLen bytes.
type Edit struct {
	Start  ByteOffset
	End    ByteOffset
	NewLen int
}

// TransformOffset updates an offset after an edit.
//
// Transformation rules:
//   - If edit is entirely before offset: adjust offset by the edit's delta
//   - If edit starts at or after offset: offset unchanged
//   - If edit spans offset: move offset to the start of the edit
func TransformOffset(offset ByteOffset, edit Edit) ByteOffset {
	if edit.End <= offset && edit.Start < offset {
		return offset - (edit.End - edit.Start) + edit.NewLen
	}
	if edit.Start >= offset {
		return offset
	}
	return edit.Start
}

// TransformSelection updates a selection after an edit.
func TransformSelection(sel Selection, edit Edit) Selection {
	return Selection{
		Anchor: TransformOffset(sel.Anchor, edit),
		Head:   TransformOffset(sel.Head, edit),
	}
}

package board

// Reorder moves the id at source to destination and returns the new sequence.
// A nil destination (drop outside any target), destination equal to source,
// or an index out of range leaves the sequence unchanged and reports false.
// ids is never modified.
func Reorder(ids []string, source int, destination *int) ([]string, bool) {
	if destination == nil {
		return ids, false
	}
	dst := *destination
	if source == dst || source < 0 || source >= len(ids) || dst < 0 || dst >= len(ids) {
		return ids, false
	}

	out := make([]string, 0, len(ids))
	out = append(out, ids[:source]...)
	out = append(out, ids[source+1:]...)

	moved := ids[source]
	out = append(out, "")
	copy(out[dst+1:], out[dst:])
	out[dst] = moved

	return out, true
}

package realtime

// Merge helpers reconcile a received event into a locally held ordered
// collection. They are pure: the input slice is never mutated and no I/O
// happens here, so applying an event is always safe to retry or replay.

// MergeCreated prepends rec, matching the newest-first ordering of every
// list endpoint.
func MergeCreated[T any](items []T, rec T) []T {
	out := make([]T, 0, len(items)+1)
	out = append(out, rec)
	return append(out, items...)
}

// MergeDeleted removes the item whose idOf matches id. Unknown ids are a
// no-op.
func MergeDeleted[T any](items []T, id int64, idOf func(T) int64) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if idOf(it) != id {
			out = append(out, it)
		}
	}
	return out
}

// MergeCompleted applies complete to the item whose idOf matches id.
// Unknown ids are a no-op.
func MergeCompleted[T any](items []T, id int64, idOf func(T) int64, complete func(T) T) []T {
	out := make([]T, len(items))
	for i, it := range items {
		if idOf(it) == id {
			it = complete(it)
		}
		out[i] = it
	}
	return out
}

package reorder

// KeyFunc extracts the identity of an item.
type KeyFunc[T any, K comparable] func(T) K

// Reconcile moves the item keyed moved next to the item keyed target and
// returns a new canonical list. Neither input slice is modified.
//
// Without a filter the move is positional: the item is taken out at its own
// index and reinserted at the target's index. With a filter the item is taken
// out first and reinserted before the target in the reduced list, so items
// hidden by the filter keep their relative order.
//
// If moved is absent, or moved and target are the same item, the result is an
// unchanged copy. If target is absent the moved item is appended.
func Reconcile[T any, K comparable](canonical []T, key KeyFunc[T, K], moved, target K, filterActive bool) []T {
	from := IndexOf(canonical, key, moved)
	if from < 0 || moved == target {
		return clone(canonical)
	}

	if !filterActive {
		to := IndexOf(canonical, key, target)
		if to < 0 {
			return appendAt(canonical, from)
		}
		return Move(canonical, from, to)
	}

	item := canonical[from]
	reduced := remove(canonical, from)

	at := IndexOf(reduced, key, target)
	if at < 0 {
		return append(reduced, item)
	}
	return insert(reduced, at, item)
}

// Move returns a copy of items with the element at from relocated to to.
// Out-of-range indexes return an unchanged copy.
func Move[T any](items []T, from, to int) []T {
	if !inRange(items, from) || !inRange(items, to) {
		return clone(items)
	}
	item := items[from]
	return insert(remove(items, from), to, item)
}

// SafeMove is [Move] followed by [Dedupe]. It returns the moved list and the
// number of duplicates dropped, which is zero unless the input was already corrupt.
//
// from == to and out-of-range indexes return an unchanged copy and zero.
func SafeMove[T any, K comparable](items []T, key KeyFunc[T, K], from, to int) ([]T, int) {
	if from == to || !inRange(items, from) || !inRange(items, to) {
		return clone(items), 0
	}
	return Dedupe(Move(items, from, to), key)
}

// Dedupe keeps the first occurrence of every key.
func Dedupe[T any, K comparable](items []T, key KeyFunc[T, K]) ([]T, int) {
	seen := make(map[K]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, item := range items {
		k := key(item)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, item)
	}
	return out, len(items) - len(out)
}

// Filter returns the items for which keep reports true, in order.
func Filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

func IndexOf[T any, K comparable](items []T, key KeyFunc[T, K], k K) int {
	for i, item := range items {
		if key(item) == k {
			return i
		}
	}
	return -1
}

func Contains[T any, K comparable](items []T, key KeyFunc[T, K], k K) bool {
	return IndexOf(items, key, k) >= 0
}

func inRange[T any](items []T, i int) bool {
	return i >= 0 && i < len(items)
}

func clone[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}

// remove returns a new slice without the element at i.
func remove[T any](items []T, i int) []T {
	out := make([]T, 0, len(items))
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...)
}

// insert places item at i in items, which it owns.
func insert[T any](items []T, i int, item T) []T {
	var zero T
	items = append(items, zero)
	copy(items[i+1:], items[i:])
	items[i] = item
	return items
}

func appendAt[T any](items []T, from int) []T {
	item := items[from]
	return append(remove(items, from), item)
}

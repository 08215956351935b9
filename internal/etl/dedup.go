package etl

// Distinct removes exact-duplicate rows, keeping the first occurrence of
// each distinct tuple in input order. Dedup is structural equality on the
// full row, not a business key.
func Distinct[T comparable](rows []T) []T {
	seen := make(map[T]struct{}, len(rows))
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		if _, ok := seen[row]; ok {
			continue
		}
		seen[row] = struct{}{}
		out = append(out, row)
	}
	return out
}

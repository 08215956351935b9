package etl

import "sync/atomic"

// IDGenerator hands out run-scoped surrogate keys, monotonic-counter style.
// Values are unique within one run only; reruns may assign different keys to
// the same logical row.
type IDGenerator struct {
	n atomic.Int64
}

// Next returns the next surrogate key.
func (g *IDGenerator) Next() int64 {
	return g.n.Add(1) - 1
}

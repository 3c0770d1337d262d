package diag

import (
	"slices"
)

// Bag collects diagnostics up to a limit. It is not safe for concurrent use;
// parallel producers fill their own bags and Merge them afterwards.
type Bag struct {
	items   []Diagnostic
	max     int
	dropped int
}

// NewBag creates a bag; max <= 0 means unlimited.
func NewBag(max int) *Bag {
	return &Bag{max: max}
}

// Add добавляет диагностику, учитывая лимит.
// Возвращает false, если диагностика не добавлена (достигнут лимит).
func (b *Bag) Add(d Diagnostic) bool {
	if b.max > 0 && len(b.items) >= b.max {
		b.dropped++
		return false
	}
	b.items = append(b.items, d)
	return true
}

// Dropped returns how many diagnostics were rejected by the limit.
func (b *Bag) Dropped() int {
	return b.dropped
}

// HasErrors возвращает true, если есть хотя бы одна диагностика с Severity >= Error
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items возвращает read-only slice диагностик.
// ВАЖНО: не модифицируйте возвращаемый срез!
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Merge переносит диагностики из other, соблюдая лимит.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	for _, d := range other.items {
		b.Add(d)
	}
	b.dropped += other.dropped
}

// Sort сортирует диагностики по: file, start, end, severity (desc), code (asc)
// для стабильного и детерминированного порядка вывода.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(di, dj Diagnostic) int {
		switch {
		case di.Primary.File != dj.Primary.File:
			return cmpU(uint32(di.Primary.File), uint32(dj.Primary.File))
		case di.Primary.Start != dj.Primary.Start:
			return cmpU(di.Primary.Start, dj.Primary.Start)
		case di.Primary.End != dj.Primary.End:
			return cmpU(di.Primary.End, dj.Primary.End)
		case di.Severity != dj.Severity:
			return int(dj.Severity) - int(di.Severity)
		}
		return int(di.Code) - int(dj.Code)
	})
}

// Dedup drops repeated diagnostics with the same code, span and message.
func (b *Bag) Dedup() {
	seen := make(map[dedupKey]struct{}, len(b.items))
	out := b.items[:0]
	for _, d := range b.items {
		k := keyOf(d.Code, d.Severity, d.Primary, d.Message)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, d)
	}
	b.items = out
}

func cmpU(a, b uint32) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

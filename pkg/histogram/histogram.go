package histogram

import (
	"fmt"
	"slices"
	"strings"
)

// Record is one histogram line.
type Record struct {
	ClassName string `json:"class_name" yaml:"class_name"`
	Instances int64  `json:"instances" yaml:"instances"`
	TotalSize int64  `json:"total_size" yaml:"total_size"`
}

func (r Record) String() string {
	return fmt.Sprintf("%s, %d, %d", r.ClassName, r.Instances, r.TotalSize)
}

// Histogram accumulates records keyed by class name.
type Histogram struct {
	records map[string]*Record
}

// New returns an empty histogram.
func New() *Histogram {
	return &Histogram{records: make(map[string]*Record)}
}

// Add counts one instance of className with the given size in bytes.
func (h *Histogram) Add(className string, size int64) {
	r, ok := h.records[className]
	if !ok {
		r = &Record{ClassName: className}
		h.records[className] = r
	}
	r.Instances++
	r.TotalSize += size
}

// Put stores r, merging counts with an existing record for the same class.
func (h *Histogram) Put(r Record) {
	if cur, ok := h.records[r.ClassName]; ok {
		cur.Instances += r.Instances
		cur.TotalSize += r.TotalSize
		return
	}
	h.records[r.ClassName] = &r
}

// Len returns the number of distinct classes.
func (h *Histogram) Len() int { return len(h.records) }

// Records returns the records sorted by class name.
func (h *Histogram) Records() []Record {
	out := make([]Record, 0, len(h.records))
	for _, r := range h.records {
		out = append(out, *r)
	}
	slices.SortFunc(out, func(a, b Record) int { return strings.Compare(a.ClassName, b.ClassName) })
	return out
}

// TotalSize returns the sum of all record sizes.
func (h *Histogram) TotalSize() int64 {
	var sum int64
	for _, r := range h.records {
		sum += r.TotalSize
	}
	return sum
}

// String renders the histogram in the "class, instances, bytes" format read
// by Parse.
func (h *Histogram) String() string {
	var b strings.Builder
	for _, r := range h.Records() {
		b.WriteString(r.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// Package coverage rebuilds per-line coverage bitmaps from Cobertura reports.
package coverage

import (
	"encoding/json"
	"sort"
)

// State is the coverage state of one source line.
type State byte

const (
	NonExecutable State = 'N'
	Covered       State = 'C'
	NotCovered    State = 'U'
)

// Bitmap holds one State per physical line; index i is line i+1.
type Bitmap []State

// NewBitmap returns a bitmap of n NonExecutable lines.
func NewBitmap(n int) Bitmap {
	b := make(Bitmap, n)
	for i := range b {
		b[i] = NonExecutable
	}
	return b
}

// Mark records a report entry for a 1-based line. A nonzero hit count
// always marks the line Covered; a zero count marks it NotCovered unless
// some earlier entry already covered it. Out-of-range lines are ignored.
func (b Bitmap) Mark(line int, hits int) bool {
	if line < 1 || line > len(b) {
		return false
	}
	i := line - 1
	if hits != 0 {
		b[i] = Covered
	} else if b[i] != Covered {
		b[i] = NotCovered
	}
	return true
}

// At returns the state of a 1-based line, or NonExecutable when out of range.
func (b Bitmap) At(line int) State {
	if line < 1 || line > len(b) {
		return NonExecutable
	}
	return b[line-1]
}

// String renders the bitmap as one character per line ("NCU...").
func (b Bitmap) String() string {
	buf := make([]byte, len(b))
	for i, s := range b {
		buf[i] = byte(s)
	}
	return string(buf)
}

// MarshalJSON encodes the bitmap in its string form.
func (b Bitmap) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.String())
}

// UnmarshalJSON decodes the string form.
func (b *Bitmap) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	out := make(Bitmap, len(s))
	for i := 0; i < len(s); i++ {
		out[i] = State(s[i])
	}
	*b = out
	return nil
}

// Counts returns the number of covered and uncovered lines.
func (b Bitmap) Counts() (covered, notCovered int) {
	for _, s := range b {
		switch s {
		case Covered:
			covered++
		case NotCovered:
			notCovered++
		}
	}
	return covered, notCovered
}

// Percent returns covered / executable * 100, or 0 when nothing is executable.
func (b Bitmap) Percent() float64 {
	c, u := b.Counts()
	if c+u == 0 {
		return 0
	}
	return float64(c) / float64(c+u) * 100
}

// Report maps project-relative paths to bitmaps.
type Report map[string]Bitmap

// Paths returns the report keys in sorted order.
func (r Report) Paths() []string {
	paths := make([]string, 0, len(r))
	for p := range r {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Totals sums covered and uncovered lines across all files.
func (r Report) Totals() (covered, notCovered int) {
	for _, b := range r {
		c, u := b.Counts()
		covered += c
		notCovered += u
	}
	return covered, notCovered
}

// PathSet is the set of files whose coverage the caller wants.
type PathSet map[string]struct{}

// NewPathSet builds a set from paths.
func NewPathSet(paths ...string) PathSet {
	s := make(PathSet, len(paths))
	for _, p := range paths {
		s[p] = struct{}{}
	}
	return s
}

// Contains reports whether p is in the set. A nil set contains nothing.
func (s PathSet) Contains(p string) bool {
	_, ok := s[p]
	return ok
}

package coverage

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/dkoosis/scalafo/pkg/source"
)

// DefaultSourceRoot is the directory Cobertura filenames are relative to in
// an sbt project.
const DefaultSourceRoot = "src/main/scala/"

// Reconstructor builds coverage bitmaps for files under review.
type Reconstructor struct {
	fs         source.FS
	sourceRoot string
	log        *slog.Logger
}

// Option configures a Reconstructor.
type Option func(*Reconstructor)

// WithSourceRoot sets the prefix joined to each class filename to form the
// project-relative path. The prefix is used verbatim.
func WithSourceRoot(root string) Option {
	return func(r *Reconstructor) { r.sourceRoot = root }
}

// WithLogger sets the logger used for skipped classes.
func WithLogger(l *slog.Logger) Option {
	return func(r *Reconstructor) {
		if l != nil {
			r.log = l
		}
	}
}

// NewReconstructor creates a reconstructor reading source files through fsys.
func NewReconstructor(fsys source.FS, opts ...Option) *Reconstructor {
	r := &Reconstructor{
		fs:         fsys,
		sourceRoot: DefaultSourceRoot,
		log:        slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// lineEntry is one <line number=".." hits=".."/> element.
type lineEntry struct {
	number int
	hits   int
}

// classEntry collects every line element below one <class>.
type classEntry struct {
	filename string
	lines    []lineEntry
}

// Reconstruct parses a Cobertura document and returns bitmaps for the
// classes whose files are in candidates and exist on disk. An empty
// document yields an empty report.
func (r *Reconstructor) Reconstruct(doc []byte, candidates PathSet) (Report, error) {
	report := make(Report)
	if len(bytes.TrimSpace(doc)) == 0 {
		return report, nil
	}

	classes, err := decodeClasses(doc)
	if err != nil {
		return nil, err
	}

	for _, c := range classes {
		if err := r.apply(report, c, candidates); err != nil {
			return nil, err
		}
	}
	return report, nil
}

func (r *Reconstructor) apply(report Report, c classEntry, candidates PathSet) error {
	rel := r.sourceRoot + c.filename

	if !candidates.Contains(rel) {
		return nil
	}
	if !r.fs.Exists(rel) {
		r.log.Debug("coverage class skipped: source file missing", "path", rel)
		return nil
	}

	bm, ok := report[rel]
	if !ok {
		n, err := r.fs.LineCount(rel)
		if err != nil {
			return fmt.Errorf("count lines of %s: %w", rel, err)
		}
		bm = NewBitmap(n)
		report[rel] = bm
	}

	for _, l := range c.lines {
		if !bm.Mark(l.number, l.hits) {
			r.log.Debug("coverage line out of range", "path", rel, "line", l.number, "lines", len(bm))
		}
	}
	return nil
}

// decodeClasses walks the document and returns every class element with all
// of its descendant line elements, in document order.
func decodeClasses(doc []byte) ([]classEntry, error) {
	dec := xml.NewDecoder(bytes.NewReader(doc))
	dec.Strict = true

	var (
		classes []classEntry
		open    []*classEntry
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode coverage report: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "class":
				open = append(open, &classEntry{filename: attr(t, "filename")})
			case "line":
				if len(open) == 0 {
					continue
				}
				l, err := parseLine(t)
				if err != nil {
					return nil, err
				}
				// A line inside nested classes belongs to each of them.
				for _, c := range open {
					c.lines = append(c.lines, l)
				}
			}
		case xml.EndElement:
			if t.Name.Local == "class" && len(open) > 0 {
				classes = append(classes, *open[len(open)-1])
				open = open[:len(open)-1]
			}
		}
	}
	return classes, nil
}

func parseLine(t xml.StartElement) (lineEntry, error) {
	number, err := strconv.Atoi(attr(t, "number"))
	if err != nil {
		return lineEntry{}, fmt.Errorf("coverage line number %q: %w", attr(t, "number"), err)
	}
	hits, err := strconv.Atoi(attr(t, "hits"))
	if err != nil {
		return lineEntry{}, fmt.Errorf("coverage hits %q on line %d: %w", attr(t, "hits"), number, err)
	}
	return lineEntry{number: number, hits: hits}, nil
}

func attr(t xml.StartElement, name string) string {
	for _, a := range t.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// IsCobertura reports whether data looks like a Cobertura XML report.
func IsCobertura(data []byte) bool {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			return false
		}
		if se, ok := tok.(xml.StartElement); ok {
			return se.Name.Local == "coverage"
		}
	}
}

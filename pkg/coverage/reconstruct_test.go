package coverage_test

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/scalafo/pkg/coverage"
	"github.com/dkoosis/scalafo/pkg/source"
)

const sampleReport = `<?xml version="1.0"?>
<!DOCTYPE coverage SYSTEM "http://cobertura.sourceforge.net/xml/coverage-04.dtd">
<coverage line-rate="0.5" branch-rate="0.0" version="1.0" timestamp="1700000000">
  <sources><source>/work/src/main/scala</source></sources>
  <packages>
    <package name="com.example" line-rate="0.5">
      <classes>
        <class name="com.example.Foo" filename="com/example/Foo.scala" line-rate="0.5">
          <methods>
            <method name="bar" signature="()V">
              <lines>
                <line number="3" hits="2"/>
                <line number="4" hits="0"/>
              </lines>
            </method>
          </methods>
          <lines>
            <line number="3" hits="2"/>
            <line number="4" hits="0"/>
            <line number="6" hits="0"/>
          </lines>
        </class>
        <class name="com.example.Other" filename="com/example/Other.scala">
          <lines><line number="1" hits="5"/></lines>
        </class>
      </classes>
    </package>
  </packages>
</coverage>
`

func sevenLines() []byte {
	return []byte(strings.Repeat("x\n", 7))
}

func TestReconstruct_EmptyDocument(t *testing.T) {
	t.Parallel()

	r := coverage.NewReconstructor(source.MapFS{})
	for _, doc := range []string{"", "  \n\t"} {
		report, err := r.Reconstruct([]byte(doc), coverage.NewPathSet("anything"))
		require.NoError(t, err)
		assert.NotNil(t, report)
		assert.Empty(t, report)
	}
}

func TestReconstruct_BuildsBitmapForCandidates(t *testing.T) {
	t.Parallel()

	fsys := source.MapFS{
		"src/main/scala/com/example/Foo.scala":   sevenLines(),
		"src/main/scala/com/example/Other.scala": []byte("object Other\n"),
	}
	r := coverage.NewReconstructor(fsys)

	report, err := r.Reconstruct([]byte(sampleReport), coverage.NewPathSet("src/main/scala/com/example/Foo.scala"))
	require.NoError(t, err)

	want := map[string]string{"src/main/scala/com/example/Foo.scala": "NNCUNUN"}
	got := make(map[string]string)
	for p, b := range report {
		got[p] = b.String()
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("report mismatch (-want +got):\n%s", diff)
	}
}

func TestReconstruct_CoveredWinsRegardlessOfOrder(t *testing.T) {
	t.Parallel()

	orders := map[string]string{
		"covered first": `<line number="5" hits="3"/><line number="5" hits="0"/>`,
		"covered last":  `<line number="5" hits="0"/><line number="5" hits="3"/>`,
	}
	for name, lines := range orders {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			doc := `<coverage><packages><package><classes>` +
				`<class filename="A.scala"><lines>` + lines + `</lines></class>` +
				`</classes></package></packages></coverage>`
			fsys := source.MapFS{"src/main/scala/A.scala": sevenLines()}

			report, err := coverage.NewReconstructor(fsys).Reconstruct([]byte(doc), coverage.NewPathSet("src/main/scala/A.scala"))
			require.NoError(t, err)
			assert.Equal(t, coverage.Covered, report["src/main/scala/A.scala"].At(5))
		})
	}
}

func TestReconstruct_MergesClassesSharingAFile(t *testing.T) {
	t.Parallel()

	doc := `<coverage><classes>
		<class filename="A.scala"><lines><line number="2" hits="1"/><line number="3" hits="0"/></lines></class>
		<class filename="A.scala"><lines><line number="2" hits="0"/><line number="4" hits="0"/></lines></class>
	</classes></coverage>`
	fsys := source.MapFS{"src/main/scala/A.scala": []byte("a\nb\nc\nd\n")}

	report, err := coverage.NewReconstructor(fsys).Reconstruct([]byte(doc), coverage.NewPathSet("src/main/scala/A.scala"))
	require.NoError(t, err)
	assert.Equal(t, "NCUU", report["src/main/scala/A.scala"].String())
}

func TestReconstruct_SkipsNonCandidatesAndMissingFiles(t *testing.T) {
	t.Parallel()

	fsys := source.MapFS{"src/main/scala/com/example/Foo.scala": sevenLines()}
	r := coverage.NewReconstructor(fsys)

	// Other.scala is requested but missing on disk; Foo.scala exists but is
	// not requested.
	report, err := r.Reconstruct([]byte(sampleReport), coverage.NewPathSet("src/main/scala/com/example/Other.scala"))
	require.NoError(t, err)
	assert.Empty(t, report)

	report, err = r.Reconstruct([]byte(sampleReport), nil)
	require.NoError(t, err)
	assert.Empty(t, report, "nil candidate set selects nothing")
}

func TestReconstruct_IgnoresOutOfRangeLines(t *testing.T) {
	t.Parallel()

	doc := `<coverage><class filename="A.scala"><line number="0" hits="1"/><line number="2" hits="1"/><line number="99" hits="1"/></class></coverage>`
	fsys := source.MapFS{"src/main/scala/A.scala": []byte("a\nb\nc")}

	report, err := coverage.NewReconstructor(fsys).Reconstruct([]byte(doc), coverage.NewPathSet("src/main/scala/A.scala"))
	require.NoError(t, err)
	assert.Equal(t, "NCN", report["src/main/scala/A.scala"].String())
}

func TestReconstruct_CustomSourceRoot(t *testing.T) {
	t.Parallel()

	doc := `<coverage><class filename="B.scala"><line number="1" hits="0"/></class></coverage>`
	fsys := source.MapFS{"app/B.scala": []byte("b\n")}

	report, err := coverage.NewReconstructor(fsys, coverage.WithSourceRoot("app/")).
		Reconstruct([]byte(doc), coverage.NewPathSet("app/B.scala"))
	require.NoError(t, err)
	assert.Equal(t, "U", report["app/B.scala"].String())
}

func TestReconstruct_Errors(t *testing.T) {
	t.Parallel()

	fsys := source.MapFS{"src/main/scala/A.scala": []byte("a\n")}
	paths := coverage.NewPathSet("src/main/scala/A.scala")

	tests := []struct {
		name string
		doc  string
	}{
		{"malformed xml", `<coverage><class filename="A.scala">`},
		{"bad number", `<coverage><class filename="A.scala"><line number="x" hits="1"/></class></coverage>`},
		{"bad hits", `<coverage><class filename="A.scala"><line number="1" hits="many"/></class></coverage>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			report, err := coverage.NewReconstructor(fsys).Reconstruct([]byte(tt.doc), paths)
			assert.Error(t, err)
			assert.Nil(t, report)
		})
	}
}

// failingCount exists but cannot be read.
type failingCount struct{ source.MapFS }

func (failingCount) LineCount(string) (int, error) { return 0, fs.ErrPermission }

func TestReconstruct_LineCountFailurePropagates(t *testing.T) {
	t.Parallel()

	fsys := failingCount{source.MapFS{"src/main/scala/A.scala": nil}}
	doc := `<coverage><class filename="A.scala"><line number="1" hits="1"/></class></coverage>`

	_, err := coverage.NewReconstructor(fsys).Reconstruct([]byte(doc), coverage.NewPathSet("src/main/scala/A.scala"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrPermission))
}

func TestReconstruct_OnDisk(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	rel := filepath.Join("src", "main", "scala", "com", "example", "Foo.scala")
	require.NoError(t, os.MkdirAll(filepath.Dir(filepath.Join(root, rel)), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, rel), sevenLines(), 0o600))

	report, err := coverage.NewReconstructor(source.NewDir(root)).
		Reconstruct([]byte(sampleReport), coverage.NewPathSet("src/main/scala/com/example/Foo.scala"))
	require.NoError(t, err)
	assert.Equal(t, "NNCUNUN", report["src/main/scala/com/example/Foo.scala"].String())
}

func TestBitmap_CountsAndPercent(t *testing.T) {
	t.Parallel()

	b := coverage.NewBitmap(5)
	assert.Equal(t, "NNNNN", b.String())
	assert.Zero(t, b.Percent())

	b.Mark(1, 1)
	b.Mark(2, 0)
	b.Mark(3, 4)
	b.Mark(4, 0)
	covered, notCovered := b.Counts()
	assert.Equal(t, 2, covered)
	assert.Equal(t, 2, notCovered)
	assert.InDelta(t, 50.0, b.Percent(), 0.001)
	assert.Equal(t, coverage.NonExecutable, b.At(42))
}

func TestBitmap_JSON(t *testing.T) {
	t.Parallel()

	r := coverage.Report{"a.scala": coverage.Bitmap{coverage.Covered, coverage.NonExecutable, coverage.NotCovered}}
	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a.scala":"CNU"}`, string(data))

	var back coverage.Report
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, r, back)
}

func TestReport_PathsAndTotals(t *testing.T) {
	t.Parallel()

	r := coverage.Report{
		"b.scala": coverage.Bitmap{coverage.Covered, coverage.NotCovered},
		"a.scala": coverage.Bitmap{coverage.Covered},
	}
	assert.Equal(t, []string{"a.scala", "b.scala"}, r.Paths())
	c, u := r.Totals()
	assert.Equal(t, 2, c)
	assert.Equal(t, 1, u)
}

func TestIsCobertura(t *testing.T) {
	t.Parallel()

	assert.True(t, coverage.IsCobertura([]byte(sampleReport)))
	assert.False(t, coverage.IsCobertura([]byte(`<testsuite name="x"/>`)))
	assert.False(t, coverage.IsCobertura([]byte(`not xml`)))
	assert.False(t, coverage.IsCobertura(nil))
}

package xunit

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

type xmlSuite struct {
	Name   string        `xml:"name,attr"`
	Suites []xmlSuite    `xml:"testsuite"`
	Cases  []xmlTestCase `xml:"testcase"`
}

type xmlTestCase struct {
	Name      string      `xml:"name,attr"`
	ClassName string      `xml:"classname,attr"`
	Time      string      `xml:"time,attr"`
	Failures  []xmlDetail `xml:"failure"`
	Errors    []xmlDetail `xml:"error"`
	Skipped   *xmlDetail  `xml:"skipped"`
	SystemOut string      `xml:"system-out"`
}

type xmlDetail struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}

// ParseFile reads and parses one report file.
func ParseFile(path string) ([]Result, error) {
	// #nosec G304 -- report paths are supplied by the caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open test report: %w", err)
	}
	results, err := ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return results, nil
}

// ParseBytes parses a report whose root is <testsuite> or <testsuites>.
// Results come back in document order.
func ParseBytes(data []byte) ([]Result, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var root struct {
		XMLName xml.Name
		xmlSuite
	}
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("decode test report: %w", err)
	}
	switch root.XMLName.Local {
	case "testsuite", "testsuites":
	default:
		return nil, fmt.Errorf("decode test report: unexpected root element <%s>", root.XMLName.Local)
	}

	var results []Result
	if err := collect(&results, root.xmlSuite, ""); err != nil {
		return nil, err
	}
	return results, nil
}

func collect(out *[]Result, s xmlSuite, parent string) error {
	suite := s.Name
	if suite == "" {
		suite = parent
	}
	for _, c := range s.Cases {
		r, err := toResult(c, suite)
		if err != nil {
			return err
		}
		*out = append(*out, r)
	}
	for _, child := range s.Suites {
		if err := collect(out, child, suite); err != nil {
			return err
		}
	}
	return nil
}

func toResult(c xmlTestCase, suite string) (Result, error) {
	r := Result{
		Name:   c.Name,
		Class:  c.ClassName,
		Suite:  suite,
		Status: StatusPass,
	}
	if c.ClassName != "" {
		r.Name = c.ClassName + "." + c.Name
	}

	if c.Time != "" {
		secs, err := strconv.ParseFloat(strings.TrimSpace(c.Time), 64)
		if err != nil {
			return Result{}, fmt.Errorf("test %s: invalid time %q: %w", r.Name, c.Time, err)
		}
		r.Duration = time.Duration(math.Round(secs * float64(time.Second)))
	}

	switch {
	case len(c.Failures) > 0:
		r.Status = StatusFail
		r.Details = joinDetails(c.Failures)
	case len(c.Errors) > 0:
		r.Status = StatusBroken
		r.Details = joinDetails(c.Errors)
	case c.Skipped != nil:
		r.Status = StatusSkip
		r.Details = strings.TrimSpace(c.Skipped.Message)
	}
	if r.Details == "" && r.Failed() {
		r.Details = strings.TrimSpace(c.SystemOut)
	}
	return r, nil
}

func joinDetails(ds []xmlDetail) string {
	parts := make([]string, 0, len(ds))
	for _, d := range ds {
		msg := strings.TrimSpace(d.Message)
		body := strings.TrimSpace(d.Body)
		switch {
		case msg != "" && body != "" && !strings.Contains(body, msg):
			parts = append(parts, msg+"\n"+body)
		case body != "":
			parts = append(parts, body)
		default:
			parts = append(parts, msg)
		}
	}
	return strings.Join(parts, "\n")
}

// IsXUnit reports whether data is an XML document rooted at <testsuite> or
// <testsuites>.
func IsXUnit(data []byte) bool {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			return false
		}
		if se, ok := tok.(xml.StartElement); ok {
			return se.Name.Local == "testsuite" || se.Name.Local == "testsuites"
		}
	}
}

package io

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/svgplot/pkg/errors"
)

// Formats lists the file extensions ImportFile understands.
var Formats = []string{"json", "csv", "toml"}

// ReadJSON decodes a JSON document from r.
//
// ReadJSON returns an INVALID_INPUT error if the JSON is malformed or the
// document fails [Document.Validate]. It does not close r.
func ReadJSON(r io.Reader) (*Document, error) {
	var doc Document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode json")
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ReadTOML decodes a TOML document from r. Keys that do not belong to the
// document are rejected.
func ReadTOML(r io.Reader) (*Document, error) {
	var doc Document
	md, err := toml.NewDecoder(r).Decode(&doc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode toml")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "decode toml: unknown key %q", undecoded[0].String())
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ReadCSV decodes x,y[,r[,color]] rows from r.
func ReadCSV(r io.Reader) (*Document, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode csv")
	}

	var doc Document
	cols := columns{x: 0, y: 1, r: 2, color: 3}
	first := 1
	if len(rows) > 0 && isHeader(rows[0]) {
		cols = headerColumns(rows[0], &doc)
		rows = rows[1:]
		first = 2
	}

	for i, row := range rows {
		p, err := cols.point(row)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "csv record %d", first+i)
		}
		doc.Points = append(doc.Points, p)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// columns holds the field index of each point attribute; -1 means absent.
type columns struct {
	x, y, r, color int
}

func isHeader(row []string) bool {
	if len(row) == 0 {
		return false
	}
	_, err := strconv.ParseFloat(strings.TrimSpace(row[0]), 64)
	return err != nil
}

func headerColumns(header []string, doc *Document) columns {
	named := columns{x: -1, y: -1, r: -1, color: -1}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "x":
			named.x = i
		case "y":
			named.y = i
		case "r", "radius":
			named.r = i
		case "color", "colour":
			named.color = i
		}
	}
	if named.x >= 0 && named.y >= 0 {
		return named
	}

	doc.XLegend = strings.TrimSpace(header[0])
	if len(header) > 1 {
		doc.YLegend = strings.TrimSpace(header[1])
	}
	return columns{x: 0, y: 1, r: 2, color: 3}
}

func (c columns) point(row []string) (Point, error) {
	var p Point
	var err error
	if p.X, err = c.float(row, c.x, "x", true); err != nil {
		return p, err
	}
	if p.Y, err = c.float(row, c.y, "y", true); err != nil {
		return p, err
	}
	if p.R, err = c.float(row, c.r, "r", false); err != nil {
		return p, err
	}
	if c.color >= 0 && c.color < len(row) {
		p.Color = strings.TrimSpace(row[c.color])
	}
	return p, nil
}

func (columns) float(row []string, i int, name string, required bool) (float64, error) {
	if i < 0 || i >= len(row) || strings.TrimSpace(row[i]) == "" {
		if required {
			return 0, fmt.Errorf("missing %s", name)
		}
		return 0, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(row[i]), 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return v, nil
}

// ImportFile reads the document at path, choosing the format from the file
// extension.
//
// ImportFile returns FILE_NOT_FOUND if path does not exist and
// INVALID_FORMAT if the extension is not one of [Formats].
func ImportFile(path string) (*Document, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	read, err := readerFor(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	doc, err := read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

func readerFor(path string) (func(io.Reader) (*Document, error), error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "json":
		return ReadJSON, nil
	case "csv":
		return ReadCSV, nil
	case "toml":
		return ReadTOML, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported input %q: must be one of %s", filepath.Ext(path), strings.Join(Formats, ", "))
}

// Package svg builds standalone SVG 1.1 documents from primitive shapes.
//
// Elements are appended in drawing order and serialized by [Document.Bytes].
// Styling goes through [Attrs]; zero-valued fields fall back to the defaults
// of each element kind.
//
//	doc := svg.New(400, 300)
//	doc.Rect(10, 10, 380, 280, svg.Attrs{})
//	doc.Circle(200, 150, 4, svg.Attrs{Fill: "#1f77b4"})
//	doc.Text(200, 290, "x", svg.Attrs{TextAnchor: "middle"})
//	out := doc.Bytes()
package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
)

const (
	header  = `<?xml version="1.0" encoding="utf-8" standalone="no"?>` + "\n"
	doctype = `<!DOCTYPE svg PUBLIC "-//W3C//DTD SVG 1.1//EN" "http://www.w3.org/Graphics/SVG/1.1/DTD/svg11.dtd">` + "\n"
)

// Attrs holds the presentation attributes an element may carry.
type Attrs struct {
	Fill        string  // fill color; "transparent" for none
	Stroke      string  // stroke color
	StrokeWidth float64 // stroke width in user units; 0 keeps the default
	FontFamily  string  // text only, e.g. "sans-serif"
	FontSize    string  // text only, e.g. "14px"
	TextAnchor  string  // text only: "start", "middle" or "end"
	Transform   string  // e.g. "rotate(270, 16, 200)"
}

// Per-element defaults.
var (
	rectDefaults   = Attrs{Fill: "transparent", Stroke: "black", StrokeWidth: 1}
	circleDefaults = Attrs{Fill: "black", Stroke: "transparent"}
	lineDefaults   = Attrs{Fill: "transparent", Stroke: "black"}
)

// merge fills the zero fields of a from def.
func (a Attrs) merge(def Attrs) Attrs {
	if a.Fill == "" {
		a.Fill = def.Fill
	}
	if a.Stroke == "" {
		a.Stroke = def.Stroke
	}
	if a.StrokeWidth == 0 {
		a.StrokeWidth = def.StrokeWidth
	}
	return a
}

// write appends the style and presentation attributes to buf.
func (a Attrs) write(buf *bytes.Buffer) {
	var style bytes.Buffer
	if a.Fill != "" {
		fmt.Fprintf(&style, "fill:%s;", a.Fill)
	}
	if a.Stroke != "" {
		fmt.Fprintf(&style, "stroke:%s;", a.Stroke)
	}
	if a.StrokeWidth != 0 {
		fmt.Fprintf(&style, "stroke-width:%s;", Num(a.StrokeWidth))
	}
	if style.Len() > 0 {
		writeAttr(buf, "style", style.String())
	}
	if a.FontFamily != "" {
		writeAttr(buf, "font-family", a.FontFamily)
	}
	if a.FontSize != "" {
		writeAttr(buf, "font-size", a.FontSize)
	}
	if a.TextAnchor != "" {
		writeAttr(buf, "text-anchor", a.TextAnchor)
	}
	if a.Transform != "" {
		writeAttr(buf, "transform", a.Transform)
	}
}

func writeAttr(buf *bytes.Buffer, name, value string) {
	fmt.Fprintf(buf, ` %s="%s"`, name, EscapeXML(value))
}

// Document is an SVG document under construction. It is not safe for
// concurrent use.
type Document struct {
	width, height float64
	viewBox       [4]float64
	elems         bytes.Buffer
	count         int
}

// New creates an empty document of the given pixel size with a matching
// view box.
func New(width, height float64) *Document {
	return &Document{width: width, height: height, viewBox: [4]float64{0, 0, width, height}}
}

// SetViewBox overrides the view box.
func (d *Document) SetViewBox(x, y, w, h float64) {
	d.viewBox = [4]float64{x, y, w, h}
}

// Len returns the number of elements added so far.
func (d *Document) Len() int { return d.count }

// Rect adds a rectangle.
func (d *Document) Rect(x, y, width, height float64, a Attrs) {
	fmt.Fprintf(&d.elems, `<rect x="%s" y="%s" width="%s" height="%s"`, Num(x), Num(y), Num(width), Num(height))
	d.finish(a.merge(rectDefaults), "/>")
}

// Circle adds a circle.
func (d *Document) Circle(cx, cy, r float64, a Attrs) {
	fmt.Fprintf(&d.elems, `<circle cx="%s" cy="%s" r="%s"`, Num(cx), Num(cy), Num(r))
	d.finish(a.merge(circleDefaults), "/>")
}

// Line adds a line segment.
func (d *Document) Line(x1, y1, x2, y2 float64, a Attrs) {
	fmt.Fprintf(&d.elems, `<line x1="%s" y1="%s" x2="%s" y2="%s"`, Num(x1), Num(y1), Num(x2), Num(y2))
	d.finish(a.merge(lineDefaults), "/>")
}

// Text adds a text element anchored at (x, y). The content is escaped.
func (d *Document) Text(x, y float64, text string, a Attrs) {
	fmt.Fprintf(&d.elems, `<text x="%s" y="%s"`, Num(x), Num(y))
	d.finish(a, ">"+EscapeXML(text)+"</text>")
}

func (d *Document) finish(a Attrs, tail string) {
	a.write(&d.elems)
	d.elems.WriteString(tail)
	d.elems.WriteByte('\n')
	d.count++
}

// Bytes serializes the document.
func (d *Document) Bytes() []byte {
	var buf bytes.Buffer
	buf.WriteString(header)
	buf.WriteString(doctype)
	fmt.Fprintf(&buf, `<svg width="%spx" height="%spx" viewBox="%s %s %s %s" version="1.1" xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink">`+"\n",
		Num(d.width), Num(d.height),
		Num(d.viewBox[0]), Num(d.viewBox[1]), Num(d.viewBox[2]), Num(d.viewBox[3]))
	buf.Write(d.elems.Bytes())
	buf.WriteString("</svg>")
	return buf.Bytes()
}

// Num formats a coordinate with the fewest digits that round-trip.
func Num(v float64) string {
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// EscapeXML escapes s for use in text content and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

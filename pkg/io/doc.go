// Package io reads scatter-plot point documents from JSON, CSV and TOML.
//
// # Document
//
// A [Document] carries the points and the axis legends of one plot. All three
// formats decode into the same structure; [Document.Plot] converts it into a
// [plot.Plot] ready for rendering.
//
// # JSON Format
//
//	{
//	  "x_legend": "input size",
//	  "y_legend": "seconds",
//	  "flip_x": false,
//	  "points": [
//	    {"x": 1, "y": 0.5},
//	    {"x": 2, "y": 1.1, "r": 4, "color": "#d62728"},
//	    [3, 2.4],
//	    [4, 4.9, 6]
//	  ]
//	}
//
// A point is either an object or a short array [x, y] or [x, y, r].
//
// # CSV Format
//
// One point per row: x,y[,r[,color]]. Lines starting with # are comments. If
// the first row is not numeric it is a header. A header naming columns x and
// y (and optionally r and color) selects columns by name; any other header
// keeps the positional layout and its first two names become the legends.
//
// # TOML Format
//
//	x_legend = "input size"
//	y_legend = "seconds"
//
//	[[points]]
//	x = 1
//	y = 0.5
//
// Unknown keys are rejected.
//
// # Import
//
// [ImportFile] picks the reader from the file extension (.json, .csv, .toml).
// Use [ReadJSON], [ReadCSV] or [ReadTOML] to read from any io.Reader.
//
// # Export
//
// [WriteJSON] writes the canonical JSON form of a document. The output can be
// re-imported with [ReadJSON].
package io

package io

import (
	"encoding/json"
	"fmt"
	"io"
)

// WriteJSON encodes doc as indented JSON and writes it to w.
// Points are always written in object form.
func WriteJSON(doc *Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Package utils holds small helpers that belong to no particular layer.
package utils

import (
	"encoding/json"
	"io"
)

// PrintJSON writes v to w as tab-indented JSON followed by a newline.
func PrintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "\t")
	return enc.Encode(v)
}

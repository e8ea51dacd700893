// internal/output/json.go
package output

import (
	"encoding/json"
	"io"
)

// WriteJSON writes the report as pretty-indented JSON.
func WriteJSON(w io.Writer, rep Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

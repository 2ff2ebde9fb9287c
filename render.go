package routes

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"unicode/utf8"
)

// verbWidth is the fixed width of the verb column.
const verbWidth = 8

// PathWidth returns the length in characters of the longest path in rs.
func PathWidth(rs []Route) int {
	width := 0
	for _, r := range rs {
		if n := utf8.RuneCountInString(r.Path); n > width {
			width = n
		}
	}
	return width
}

// Format renders r as a report line without the trailing newline, padding
// the path to width characters.
func (r Route) Format(width int) string {
	return fmt.Sprintf("%-*s%-*s - %s", verbWidth, r.Verb, width, r.Path, r.Handler())
}

// Render writes one line per route in the given order:
//
//	GET     /users       - example.com/app/api.Users.List(...)
//	POST    /users/{id}  - example.com/app/api.Users.Save(...)
//
// The verb column is eight characters wide and the path column is as wide
// as the longest path.
func Render(w io.Writer, rs []Route) error {
	width := PathWidth(rs)
	bw := bufio.NewWriter(w)
	for _, r := range rs {
		if _, err := bw.WriteString(r.Format(width) + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

type jsonReport struct {
	Routes []Route `json:"routes"`
}

// RenderJSON writes rs as a single JSON object {"routes": [...]}.
func RenderJSON(w io.Writer, rs []Route) error {
	if rs == nil {
		rs = []Route{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(jsonReport{Routes: rs}); err != nil {
		return fmt.Errorf("encode routes: %w", err)
	}
	return nil
}

// Package report prints readbacks for humans.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/openfluke/computeguide/compute"
)

// Format selects how a buffer is printed.
type Format string

const (
	// FormatDebug prints one element per line inside brackets, the way a
	// debug print of a slice looks.
	FormatDebug Format = "debug"
	// FormatTable prints an index column and one column per field.
	FormatTable Format = "table"
)

// ParseFormat accepts "debug" and "table".
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatDebug, FormatTable:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (want %q or %q)", s, FormatDebug, FormatTable)
}

// Numbers prints a numbers readback.
func Numbers(w io.Writer, values []uint32, f Format) error {
	if f == FormatTable {
		rows := make([][]string, len(values))
		for i, v := range values {
			rows[i] = []string{strconv.Itoa(i), strconv.FormatUint(uint64(v), 10)}
		}
		return table(w, []string{"index", "value"}, rows)
	}

	lines := make([]string, len(values))
	for i, v := range values {
		lines[i] = strconv.FormatUint(uint64(v), 10)
	}
	return debug(w, lines)
}

// Rects prints a rects readback.
func Rects(w io.Writer, rects []compute.Rect, f Format) error {
	if f == FormatTable {
		rows := make([][]string, len(rects))
		for i, r := range rects {
			rows[i] = []string{
				strconv.Itoa(i),
				strconv.FormatUint(uint64(r.PosX), 10),
				strconv.FormatUint(uint64(r.PosY), 10),
				strconv.FormatUint(uint64(r.Width), 10),
				strconv.FormatUint(uint64(r.Height), 10),
			}
		}
		return table(w, []string{"index", "pos_x", "pos_y", "width", "height"}, rows)
	}

	lines := make([]string, len(rects))
	for i, r := range rects {
		lines[i] = fmt.Sprintf("Rect {\n        pos_x: %d,\n        pos_y: %d,\n        width: %d,\n        height: %d,\n    }",
			r.PosX, r.PosY, r.Width, r.Height)
	}
	return debug(w, lines)
}

func debug(w io.Writer, lines []string) error {
	if len(lines) == 0 {
		_, err := io.WriteString(w, "[]\n")
		return err
	}
	if _, err := io.WriteString(w, "[\n"); err != nil {
		return err
	}
	for _, l := range lines {
		if _, err := fmt.Fprintf(w, "    %s,\n", l); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "]\n")
	return err
}

func table(w io.Writer, header []string, rows [][]string) error {
	t := tablewriter.NewWriter(w)
	t.Header(header)
	if err := t.Bulk(rows); err != nil {
		return err
	}
	return t.Render()
}

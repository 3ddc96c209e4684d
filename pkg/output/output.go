// Package output prints status reports for the spawn CLI.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/jwalton/go-supportscolor"
)

var (
	green = "\033[32m"
	red   = "\033[31m"
	dim   = "\033[2m"
	reset = "\033[0m"
)

func init() {
	if !supportscolor.Stdout().SupportsColor {
		green, red, dim, reset = "", "", "", ""
	}
}

// Report is one line of status plus indented details.
type Report struct {
	Name    string   // e.g. "which: gdb", "run: gdb"
	OK      bool     // whether the operation succeeded
	Details []string // "label: value" lines
}

// Print writes r to w. Detail lines are aligned under the report name.
func Print(w io.Writer, r Report) {
	status, color := "[OK]", green
	if !r.OK {
		status, color = "[FAIL]", red
	}
	fmt.Fprintf(w, "%s%s%s %s\n", color, status, reset, r.Name)

	indent := strings.Repeat(" ", len(status)+1)
	for _, d := range r.Details {
		fmt.Fprintf(w, "%s%s\n", indent, formatLabel(d))
	}
}

// formatLabel dims the "label:" prefix of a detail line.
func formatLabel(detail string) string {
	label, value, found := strings.Cut(detail, ":")
	if !found || dim == "" {
		return detail
	}
	return dim + label + ":" + reset + value
}

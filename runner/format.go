package runner

import (
	"bufio"
	"fmt"
	"io"
)

// WriteResults prints each result as a labeled block:
//
//	=== <name> ===
//	<output>
//
// Failed results print "error: <err>" as the body and missing output prints
// an empty body.
func WriteResults(w io.Writer, results []Result) error {
	bw := bufio.NewWriter(w)
	for _, r := range results {
		body := r.Text()
		if r.Err != nil {
			body = "error: " + r.Err.Error()
		}
		if _, err := fmt.Fprintf(bw, "=== %s ===\n%s\n\n", r.Name, body); err != nil {
			return err
		}
	}
	return bw.Flush()
}

package diagfmt

import (
	"fmt"
	"io"

	"hone/internal/diag"
	"hone/internal/source"
)

// Short prints one line per diagnostic:
// path:line:col: severity[CODE]: message
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, mode PathMode) {
	for _, d := range bag.Items() {
		code := d.Code.ID()
		if d.Code.IsLint() {
			code = d.Code.Title()
		}
		fmt.Fprintf(w, "%s: %s[%s]: %s\n", location(fs, d.Primary, mode), d.Severity, code, d.Message)
	}
}

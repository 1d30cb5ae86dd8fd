package diagfmt

import (
	"io"

	"hone/internal/diag"
	"hone/internal/source"
)

// Options groups the settings of every renderer.
type Options struct {
	Format Format
	Pretty PrettyOpts
	JSON   JSONOpts
}

// Render writes bag in the selected format.
func Render(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts Options) error {
	switch opts.Format {
	case FormatShort:
		Short(w, bag, fs, opts.Pretty.PathMode)
	case FormatJSON:
		return JSON(w, bag, fs, opts.JSON)
	case FormatMsgpack:
		return Msgpack(w, bag, fs, opts.JSON)
	default:
		Pretty(w, bag, fs, opts.Pretty)
	}
	return nil
}

// Command fontinfo prints what the typeface package sees in a font file.
package main

import (
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/gogpu/typeface"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("fontinfo: ")
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		log.Fatal(err)
	}
}

type options struct {
	index   uint64
	size    float64
	axes    string
	table   string
	glyph   string
	png     string
	verbose bool
	path    string
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("fontinfo", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Uint64Var(&o.index, "index", 0, "collection member `index`")
	fs.Float64Var(&o.size, "size", 0, "output `size` in pixels per em (default: units per em)")
	fs.StringVar(&o.axes, "axis", "", "design coordinates, for example `wght=700,wdth=80`")
	fs.StringVar(&o.table, "table", "", "hex-dump the table with this `tag`")
	fs.StringVar(&o.glyph, "glyph", "", "`character` whose glyph is rendered with -png")
	fs.StringVar(&o.png, "png", "", "write the -glyph rendering to this `file`")
	fs.BoolVar(&o.verbose, "v", false, "log debug messages to stderr")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: fontinfo [flags] font.ttf")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return o, errors.New("expected exactly one font file")
	}
	o.path = fs.Arg(0)
	if (o.glyph == "") != (o.png == "") {
		return o, errors.New("-glyph and -png must be used together")
	}
	if o.index > math.MaxUint32 {
		return o, fmt.Errorf("index %d out of range", o.index)
	}
	return o, nil
}

func run(args []string, stdout, stderr io.Writer) error {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	if o.verbose {
		typeface.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	design, err := parseAxes(o.axes)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(o.path)
	if err != nil {
		return err
	}
	f := typeface.Resolve(data, uint32(o.index))
	if !f.IsValid() {
		return f.Err()
	}

	size := float32(o.size)
	if size <= 0 {
		size = float32(f.UnitsPerEm())
	}
	coords := f.ResolveCoordinates(design...)

	if o.table != "" {
		return dumpTable(stdout, f, o.table)
	}
	if o.glyph != "" {
		r, n := utf8.DecodeRuneInString(o.glyph)
		if r == utf8.RuneError || n != len(o.glyph) {
			return fmt.Errorf("-glyph wants a single character, got %q", o.glyph)
		}
		return renderGlyph(o.png, f, r, size, coords)
	}

	printInfo(stdout, f, size, coords)
	return nil
}

// parseAxes parses "wght=700,wdth=80".
func parseAxes(s string) ([]typeface.DesignCoordinate, error) {
	if s == "" {
		return nil, nil
	}
	var out []typeface.DesignCoordinate
	for _, field := range strings.Split(s, ",") {
		name, value, ok := strings.Cut(strings.TrimSpace(field), "=")
		if !ok {
			return nil, fmt.Errorf("axis %q: want tag=value", field)
		}
		tag, err := typeface.ParseTag(name)
		if err != nil {
			return nil, fmt.Errorf("axis %q: %w", field, err)
		}
		v, err := strconv.ParseFloat(value, 32)
		if err != nil {
			return nil, fmt.Errorf("axis %q: %w", field, err)
		}
		out = append(out, typeface.DesignCoordinate{Axis: tag, Value: float32(v)})
	}
	return out, nil
}

func printInfo(w io.Writer, f *typeface.Font, size float32, coords typeface.NormalizedCoords) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintf(tw, "family\t%s\n", f.FamilyName())
	if ps, ok := f.PostScriptName(); ok {
		fmt.Fprintf(tw, "postscript\t%s\n", ps)
	}
	fmt.Fprintf(tw, "index\t%d\n", f.Index())
	fmt.Fprintf(tw, "units per em\t%d\n", f.UnitsPerEm())
	fmt.Fprintf(tw, "glyphs\t%d\n", f.GlyphCount())

	it := f.LocalizedFamilyNames()
	for s, ok := it.Next(); ok; s, ok = it.Next() {
		lang := s.Language
		if lang == "" {
			lang = "-"
		}
		fmt.Fprintf(tw, "  name[%s]\t%s\n", lang, s.Value)
	}

	for i, a := range f.Axes() {
		fmt.Fprintf(tw, "axis %s\t%g..%g..%g", a.Tag, a.Min, a.Default, a.Max)
		if i < coords.Len() {
			fmt.Fprintf(tw, "  (%.4f)", coords.At(i))
		}
		fmt.Fprintln(tw)
	}

	m := f.Metrics(size, coords)
	fmt.Fprintf(tw, "metrics @%g\t\n", size)
	for _, row := range []struct {
		name  string
		value float32
	}{
		{"top", m.Top},
		{"bottom", m.Bottom},
		{"x min", m.XMin},
		{"x max", m.XMax},
		{"ascent", m.Ascent},
		{"descent", m.Descent},
		{"leading", m.Leading},
		{"avg char width", m.AvgCharWidth},
		{"max char width", m.MaxCharWidth},
		{"x height", m.XHeight},
		{"cap height", m.CapHeight},
	} {
		fmt.Fprintf(tw, "  %s\t%g\n", row.name, row.value)
	}

	fmt.Fprintln(tw, "tables\t")
	for _, tag := range f.TableTags() {
		fmt.Fprintf(tw, "  %s\t%d\n", tag, f.TableData(tag, 0, nil))
	}
}

func dumpTable(w io.Writer, f *typeface.Font, name string) error {
	tag, err := typeface.ParseTag(name)
	if err != nil {
		return err
	}
	if !f.HasTable(tag) {
		return fmt.Errorf("no %q table", name)
	}
	buf := make([]byte, f.TableData(tag, 0, nil))
	if len(buf) > 0 {
		f.TableData(tag, 0, buf)
	}
	d := hex.Dumper(w)
	defer d.Close()
	_, err = d.Write(buf)
	return err
}

// Command tzinfo prints the content of a TZif file and the offset changes it
// describes, or compares two TZif files.
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ngrash/go-datetime/datetime"
	"github.com/ngrash/go-datetime/tzif"
	"github.com/ngrash/go-datetime/zone"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "tzinfo:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("tzinfo", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: tzinfo [flags] <tzif file>")
		fs.PrintDefaults()
	}
	var (
		diffFlag = fs.String("diff", "", "compare with another TZif file")
		fromFlag = fs.Int("from", 0, "first year of offset changes to list (default: the first transition)")
		toFlag   = fs.Int("to", 0, "last year of offset changes to list (default: the year after the last transition)")
		verbose  = fs.Bool("v", false, "log diagnostics to stderr")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errors.New("expected one file")
	}

	config, level := zap.NewProductionEncoderConfig(), zapcore.WarnLevel
	if *verbose {
		config, level = zap.NewDevelopmentEncoderConfig(), zapcore.DebugLevel
	}
	config.TimeKey = ""
	logger := zap.New(zapcore.NewCore(zapcore.NewConsoleEncoder(config), zapcore.AddSync(stderr), level))
	defer func() { _ = logger.Sync() }()

	path := fs.Arg(0)
	f, err := readFile(path, logger)
	if err != nil {
		return err
	}
	if *diffFlag != "" {
		other, err := readFile(*diffFlag, logger)
		if err != nil {
			return err
		}
		if diff := cmp.Diff(f, other); diff != "" {
			fmt.Fprintf(stdout, "files are different: -%s +%s\n%s", path, *diffFlag, diff)
		} else {
			fmt.Fprintln(stdout, "files are identical")
		}
		return nil
	}

	id := zoneID(path)
	printFile(stdout, id, f)
	z, err := zone.FromTZif(id, f)
	if err != nil {
		return err
	}
	from, to, err := yearRange(f, *fromFlag, *toFlag)
	if err != nil {
		return err
	}
	return printTransitions(stdout, z, from, to)
}

func readFile(path string, logger *zap.Logger) (*tzif.File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	r := bytes.NewReader(b)
	f, err := tzif.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	logger.Debug("decoded TZif file",
		zap.String("path", path),
		zap.Stringer("version", f.Version),
		zap.Int("transitions", len(f.Transitions)),
		zap.Int("types", len(f.LocalTimeTypes)))
	if r.Len() > 0 {
		logger.Warn("trailing data after TZif footer", zap.String("path", path), zap.Int("bytes", r.Len()))
	}
	return f, nil
}

// zoneID derives the zone identifier from a path below a zoneinfo directory,
// such as /usr/share/zoneinfo/Europe/Berlin.
func zoneID(path string) string {
	path = filepath.ToSlash(path)
	if _, id, ok := strings.Cut(path, "zoneinfo/"); ok {
		return id
	}
	return filepath.Base(path)
}

func printFile(w io.Writer, id string, f *tzif.File) {
	fmt.Fprintf(w, "%s\n", id)
	fmt.Fprintf(w, "  version     = %v\n", f.Version)
	fmt.Fprintf(w, "  transitions = %d\n", len(f.Transitions))
	fmt.Fprintf(w, "  types       = %d\n", len(f.LocalTimeTypes))
	if f.Footer != "" {
		fmt.Fprintf(w, "  footer      = %s\n", f.Footer)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Local time types")
	for i, t := range f.LocalTimeTypes {
		o, err := datetime.UtcOffsetFromSeconds(int(t.Offset))
		offset := o.String()
		if err != nil {
			offset = fmt.Sprintf("%ds", t.Offset)
		}
		dst := ""
		if t.DST {
			dst = " dst"
		}
		fmt.Fprintf(w, "  %d %-9s %s%s\n", i, offset, t.Abbrev, dst)
	}
	fmt.Fprintln(w)
}

// yearRange returns the years to list changes for. By default that is from
// the first transition of the table to the year after its last, or the
// current year for files without transitions.
func yearRange(f *tzif.File, from, to int) (int, int, error) {
	first, last := time.Now().Year(), time.Now().Year()
	if n := len(f.Transitions); n > 0 {
		first = time.Unix(f.Transitions[0], 0).UTC().Year()
		last = time.Unix(f.Transitions[n-1], 0).UTC().Year() + 1
	}
	if from == 0 {
		from = first
	}
	if to == 0 {
		to = max(last, from)
	}
	if to < from {
		return 0, 0, fmt.Errorf("year range %d..%d is empty", from, to)
	}
	return from, to, nil
}

func printTransitions(w io.Writer, z *zone.Zone, from, to int) error {
	lo, err := startOfYear(from)
	if err != nil {
		return err
	}
	hi, err := startOfYear(to + 1)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Offset changes %d..%d\n", from, to)
	for _, t := range z.Transitions(lo, hi) {
		before, err := t.At.ToLocalDateTime(zone.Fixed(t.Before))
		if err != nil {
			return err
		}
		after, err := t.At.ToLocalDateTime(zone.Fixed(t.After))
		if err != nil {
			return err
		}
		kind := "gap"
		if t.After.TotalSeconds() < t.Before.TotalSeconds() {
			kind = "overlap"
		}
		fmt.Fprintf(w, "  %v %v -> %v %-7s %v -> %v\n", t.At, t.Before, t.After, kind, before, after)
	}
	return nil
}

func startOfYear(year int) (datetime.Instant, error) {
	d, err := datetime.NewLocalDate(year, time.January, 1)
	if err != nil {
		return datetime.Instant{}, err
	}
	return d.AtStartOfDayIn(datetime.UTC)
}

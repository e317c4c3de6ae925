// Command datecalc does calendar arithmetic on ISO-8601 dates, date-times and
// instants.
//
//	datecalc add 2024-01-31 P1M                      # 2024-02-29
//	datecalc -zone Europe/Berlin add 2024-03-30T12:00 P1D
//	datecalc until days 2024-01-01 2024-03-01        # 60
//	datecalc between 2024-01-31T10:00 2024-03-01T09:00
//	datecalc zone Europe/Berlin 2024
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ngrash/go-datetime/datetime"
	"github.com/ngrash/go-datetime/period"
	"github.com/ngrash/go-datetime/zone"
)

const usage = `Usage: datecalc [flags] <command> [arguments]

Commands:
  add <value> <period>             add an ISO-8601 period such as P1M2DT3H
  sub <value> <period>             subtract a period
  until <unit> <from> <to>         count whole units, e.g. days or hours
  between <from> <to>              the period from one value to another
  zone <id> [from-year [to-year]]  list the offset changes of a zone

A value is an instant (2024-03-31T01:00:00Z), a date-time (2024-03-31T02:30)
or a date (2024-03-31). With -zone, date-times are readings in that zone.

Flags:
`

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "datecalc:", err)
		os.Exit(1)
	}
}

type app struct {
	out    io.Writer
	logger *zap.Logger
	db     *zone.Database
	// tz is nil unless -zone is given.
	tz datetime.TimeZone
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("datecalc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usage)
		fs.PrintDefaults()
	}
	var (
		zoneinfo = fs.String("zoneinfo", "", "zone data directory (default $ZONEINFO, then "+zone.DefaultDir+")")
		zoneID   = fs.String("zone", "", `zone for calendar arithmetic: an ID, an offset such as +05:30, a POSIX TZ string or "local"`)
		verbose  = fs.Bool("v", false, "log diagnostics to stderr")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errors.New("missing command")
	}

	logger := newLogger(*verbose, stderr)
	defer func() { _ = logger.Sync() }()

	a := &app{out: stdout, logger: logger, db: zone.NewDatabase(os.DirFS(zoneDir(*zoneinfo)), logger)}
	if *zoneID != "" {
		var err error
		if a.tz, err = a.loadZone(*zoneID); err != nil {
			return err
		}
	}

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "add":
		return a.add(rest, false)
	case "sub":
		return a.add(rest, true)
	case "until":
		return a.until(rest)
	case "between":
		return a.between(rest)
	case "zone":
		return a.zone(rest)
	}
	return fmt.Errorf("unknown command %q", cmd)
}

func zoneDir(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if dir := os.Getenv("ZONEINFO"); dir != "" {
		return dir
	}
	return zone.DefaultDir
}

// newLogger writes console logs to w: warnings and errors by default, and
// everything with the development settings when verbose.
func newLogger(verbose bool, w io.Writer) *zap.Logger {
	config, level := zap.NewProductionEncoderConfig(), zapcore.WarnLevel
	if verbose {
		config, level = zap.NewDevelopmentEncoderConfig(), zapcore.DebugLevel
	}
	config.EncodeTime = func(ts time.Time, encoder zapcore.PrimitiveArrayEncoder) {
		encoder.AppendString(ts.UTC().Format(time.RFC3339))
	}
	return zap.New(zapcore.NewCore(zapcore.NewConsoleEncoder(config), zapcore.AddSync(w), level))
}

// loadZone reads id as an offset, then looks it up in the zone directory,
// parses it as a POSIX TZ string and finally asks the time package, which
// falls back to the zone data embedded in the binary.
func (a *app) loadZone(id string) (datetime.TimeZone, error) {
	switch {
	case id == "local":
		return a.db.System()
	case id == "UTC":
		return datetime.UTC, nil
	case id == "Z" || strings.HasPrefix(id, "+") || strings.HasPrefix(id, "-"):
		o, err := datetime.ParseUtcOffset(id)
		if err != nil {
			return nil, err
		}
		return zone.Fixed(o), nil
	}
	z, err := a.db.Load(id)
	if err == nil {
		return z, nil
	}
	if !errors.Is(err, zone.ErrUnknownZone) {
		return nil, err
	}
	a.logger.Debug("zone not in zone directory", zap.String("id", id), zap.Error(err))
	if r, perr := zone.FromPOSIX(id); perr == nil {
		return r, nil
	}
	if loc, lerr := time.LoadLocation(id); lerr == nil {
		a.logger.Debug("using zone data of the time package", zap.String("id", id))
		return zone.FromLocation(loc), nil
	}
	return nil, err
}

type valueKind int

const (
	instantValue valueKind = iota
	dateTimeValue
	dateValue
)

func (k valueKind) String() string {
	return [...]string{"instant", "date-time", "date"}[k]
}

type value struct {
	kind    valueKind
	instant datetime.Instant
	local   datetime.LocalDateTime
	date    datetime.LocalDate
}

func parseValue(s string) (value, error) {
	if i, err := datetime.ParseInstant(s); err == nil {
		return value{kind: instantValue, instant: i}, nil
	}
	if dt, err := datetime.ParseLocalDateTime(s); err == nil {
		return value{kind: dateTimeValue, local: dt}, nil
	}
	d, err := datetime.ParseLocalDate(s)
	if err != nil {
		return value{}, fmt.Errorf("%q is neither an instant, a date-time nor a date", s)
	}
	return value{kind: dateValue, date: d}, nil
}

func parsePair(from, to string) (value, value, error) {
	a, err := parseValue(from)
	if err != nil {
		return value{}, value{}, err
	}
	b, err := parseValue(to)
	if err != nil {
		return value{}, value{}, err
	}
	if a.kind != b.kind {
		return value{}, value{}, fmt.Errorf("cannot compare %s %s with %s %s", a.kind, from, b.kind, to)
	}
	return a, b, nil
}

// timeZone returns the zone of -zone, or UTC.
func (a *app) timeZone() datetime.TimeZone {
	if a.tz == nil {
		return datetime.UTC
	}
	return a.tz
}

func (a *app) zoned(dt datetime.LocalDateTime) (datetime.ZonedDateTime, error) {
	z, err := dt.AtZone(a.tz).Resolve()
	if err != nil {
		return datetime.ZonedDateTime{}, err
	}
	if z.Local() != dt {
		a.logger.Info("reading falls into a gap", zap.Stringer("reading", dt), zap.Stringer("resolved", z))
	}
	return z, nil
}

func (a *app) add(args []string, negate bool) error {
	if len(args) != 2 {
		return errors.New("add and sub take a value and a period")
	}
	v, err := parseValue(args[0])
	if err != nil {
		return err
	}
	p, err := period.Parse(args[1])
	if err != nil {
		return err
	}
	if negate {
		if p, err = p.Negate(); err != nil {
			return err
		}
	}

	var result fmt.Stringer
	switch v.kind {
	case instantValue:
		result, err = v.instant.PlusPeriod(p, a.timeZone())
	case dateTimeValue:
		if a.tz == nil {
			result, err = v.local.PlusPeriod(p)
			break
		}
		var z datetime.ZonedDateTime
		if z, err = a.zoned(v.local); err == nil {
			result, err = z.PlusPeriod(p)
		}
	case dateValue:
		dp, ok := p.DatePeriod()
		if !ok {
			return fmt.Errorf("period %v has a time component; add it to a date-time", p)
		}
		result, err = v.date.PlusPeriod(dp)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, result)
	return err
}

var units = map[string]period.DateTimeUnit{
	"nanosecond":  period.Nanosecond,
	"microsecond": period.Microsecond,
	"millisecond": period.Millisecond,
	"second":      period.Second,
	"minute":      period.Minute,
	"hour":        period.Hour,
	"day":         period.Day,
	"week":        period.Week,
	"month":       period.Month,
	"quarter":     period.Quarter,
	"year":        period.Year,
	"century":     period.Century,
}

func parseUnit(s string) (period.DateTimeUnit, error) {
	name := strings.ToLower(s)
	if name == "centuries" {
		name = "century"
	}
	if u, ok := units[strings.TrimSuffix(name, "s")]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("unknown unit %q", s)
}

func (a *app) until(args []string) error {
	if len(args) != 3 {
		return errors.New("until takes a unit and two values")
	}
	unit, err := parseUnit(args[0])
	if err != nil {
		return err
	}
	from, to, err := parsePair(args[1], args[2])
	if err != nil {
		return err
	}

	var n int64
	switch from.kind {
	case instantValue:
		n = from.instant.UntilIn(to.instant, unit, a.timeZone())
	case dateTimeValue:
		if a.tz == nil {
			n = from.local.Until(to.local, unit)
			break
		}
		zf, err := a.zoned(from.local)
		if err != nil {
			return err
		}
		zt, err := a.zoned(to.local)
		if err != nil {
			return err
		}
		n = zf.Until(zt, unit)
	case dateValue:
		u, ok := unit.(period.DateBased)
		if !ok {
			return fmt.Errorf("dates are counted in days or months, not in %v", unit)
		}
		n = from.date.Until(to.date, u)
	}
	_, err = fmt.Fprintln(a.out, n)
	return err
}

func (a *app) between(args []string) error {
	if len(args) != 2 {
		return errors.New("between takes two values")
	}
	from, to, err := parsePair(args[0], args[1])
	if err != nil {
		return err
	}

	var p fmt.Stringer
	switch from.kind {
	case instantValue:
		p, err = from.instant.PeriodUntil(to.instant, a.timeZone())
	case dateTimeValue:
		if a.tz == nil {
			p, err = from.local.PeriodUntil(to.local)
			break
		}
		var zf, zt datetime.ZonedDateTime
		if zf, err = a.zoned(from.local); err != nil {
			return err
		}
		if zt, err = a.zoned(to.local); err != nil {
			return err
		}
		p, err = zf.PeriodUntil(zt)
	case dateValue:
		p, err = from.date.PeriodUntil(to.date)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, p)
	return err
}

func (a *app) zone(args []string) error {
	if len(args) < 1 || len(args) > 3 {
		return errors.New("zone takes an ID and up to two years")
	}
	tz, err := a.loadZone(args[0])
	if err != nil {
		return err
	}
	from := time.Now().Year()
	if len(args) > 1 {
		if from, err = strconv.Atoi(args[1]); err != nil {
			return fmt.Errorf("invalid year %q", args[1])
		}
	}
	to := from
	if len(args) > 2 {
		if to, err = strconv.Atoi(args[2]); err != nil {
			return fmt.Errorf("invalid year %q", args[2])
		}
	}
	lo, err := startOfYear(from)
	if err != nil {
		return err
	}
	hi, err := startOfYear(to + 1)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s, offset %v at %v\n", tz.ID(), tz.OffsetAt(lo), lo)
	z, ok := tz.(*zone.Zone)
	if !ok {
		a.logger.Warn("zone does not list its transitions", zap.String("id", tz.ID()))
		return nil
	}
	for _, t := range z.Transitions(lo, hi) {
		before, err := t.At.ToLocalDateTime(zone.Fixed(t.Before))
		if err != nil {
			return err
		}
		after, err := t.At.ToLocalDateTime(zone.Fixed(t.After))
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%v %v -> %v (%v -> %v)\n", t.At, t.Before, t.After, before, after)
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

package zone

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/ngrash/go-datetime/datetime"
	"github.com/ngrash/go-datetime/tzif"
)

// ErrUnknownZone is returned for zone identifiers without zone data.
var ErrUnknownZone = errors.New("unknown time zone")

// DefaultDir is where zone data is usually installed on Unix systems.
const DefaultDir = "/usr/share/zoneinfo"

// Database loads zones by identifier, such as "Europe/Berlin", from FS.
// Loaded zones are cached. A Database is safe for concurrent use.
type Database struct {
	// FS holds one TZif file per zone, named by its identifier.
	FS fs.FS
	// Logger receives load diagnostics. It may be nil.
	Logger *zap.Logger

	mu    sync.Mutex
	zones map[string]*Zone
}

// NewDatabase returns a database reading from fsys.
func NewDatabase(fsys fs.FS, logger *zap.Logger) *Database {
	return &Database{FS: fsys, Logger: logger}
}

func (db *Database) logger() *zap.Logger {
	if db.Logger == nil {
		return zap.NewNop()
	}
	return db.Logger
}

// Load returns the zone with the given identifier.
func (db *Database) Load(id string) (*Zone, error) {
	if !fs.ValidPath(id) || id == "." {
		return nil, fmt.Errorf("%w: %q", ErrUnknownZone, id)
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	if z, ok := db.zones[id]; ok {
		return z, nil
	}
	b, err := fs.ReadFile(db.FS, id)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownZone, id)
		}
		return nil, fmt.Errorf("read zone %s: %w", id, err)
	}
	z, err := decode(id, b)
	if err != nil {
		return nil, err
	}
	if db.zones == nil {
		db.zones = map[string]*Zone{}
	}
	db.zones[id] = z
	db.logger().Debug("loaded zone",
		zap.String("id", id),
		zap.Int("transitions", len(z.transitions)),
		zap.Bool("rule", z.rule != nil))
	return z, nil
}

func decode(id string, b []byte) (*Zone, error) {
	f, err := tzif.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("decode zone %s: %w", id, err)
	}
	return FromTZif(id, f)
}

// AvailableIDs returns the identifiers of all TZif files in FS, sorted.
func (db *Database) AvailableIDs() ([]string, error) {
	var ids []string
	err := fs.WalkDir(db.FS, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		ok, err := isTZif(db.FS, path)
		if err != nil {
			return err
		}
		if ok {
			ids = append(ids, path)
		} else {
			db.logger().Debug("skipping file without TZif magic", zap.String("path", path))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list zones: %w", err)
	}
	return ids, nil
}

func isTZif(fsys fs.FS, path string) (bool, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()
	var magic [4]byte
	if _, err := io.ReadFull(f, magic[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return false, nil
		}
		return false, err
	}
	return magic == tzif.Magic, nil
}

// System returns the zone configured for the process. A set TZ environment
// variable names a zone of the database, a TZif file by absolute path, or a
// POSIX TZ string; an empty TZ means UTC. Without TZ, /etc/localtime is used,
// and UTC if it does not exist.
func (db *Database) System() (datetime.TimeZone, error) {
	tz, ok := os.LookupEnv("TZ")
	return db.system(tz, ok, "/etc/localtime")
}

func (db *Database) system(tz string, set bool, localtime string) (datetime.TimeZone, error) {
	log := db.logger()
	if set {
		tz = strings.TrimPrefix(tz, ":")
		switch {
		case tz == "":
			return datetime.UTC, nil
		case filepath.IsAbs(tz):
			log.Debug("system zone from file", zap.String("path", tz))
			return timeZone(readZoneFile(tz, tz))
		}
		z, err := db.Load(tz)
		if err == nil {
			return z, nil
		}
		if !errors.Is(err, ErrUnknownZone) {
			return nil, err
		}
		log.Debug("TZ is not in the database, reading it as a rule", zap.String("tz", tz))
		return timeZone(FromPOSIX(tz))
	}

	if target, err := os.Readlink(localtime); err == nil {
		if _, id, ok := strings.Cut(target, "zoneinfo/"); ok {
			if z, err := db.Load(id); err == nil {
				return z, nil
			}
			log.Debug("zone linked by localtime not in database", zap.String("id", id))
		}
	}
	z, err := readZoneFile("Local", localtime)
	if errors.Is(err, fs.ErrNotExist) {
		log.Debug("no local zone configured, using UTC", zap.String("path", localtime))
		return datetime.UTC, nil
	}
	return timeZone(z, err)
}

// timeZone keeps a failed *Zone result from becoming a non-nil TimeZone.
func timeZone(z *Zone, err error) (datetime.TimeZone, error) {
	if err != nil {
		return nil, err
	}
	return z, nil
}

func readZoneFile(id, path string) (*Zone, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read zone %s: %w", id, err)
	}
	return decode(id, b)
}

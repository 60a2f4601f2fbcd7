package sqlstore

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Dialect captures the differences between the supported SQL engines.
type Dialect struct {
	name       string
	numbered   bool // $1, $2 placeholders
	nativeTime bool // timestamp columns hold time values rather than text
	types      *strings.Replacer
}

var (
	Postgres = Dialect{
		name:       "postgres",
		numbered:   true,
		nativeTime: true,
		types:      strings.NewReplacer("{ts}", "TIMESTAMPTZ", "{float}", "DOUBLE PRECISION", "{json}", "JSONB"),
	}
	SQLite = Dialect{
		name:  "sqlite",
		types: strings.NewReplacer("{ts}", "TEXT", "{float}", "REAL", "{json}", "TEXT"),
	}
)

func (d Dialect) String() string { return d.name }

// rebind rewrites ? placeholders for engines that number them.
func (d Dialect) rebind(q string) string {
	if !d.numbered {
		return q
	}
	var sb strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// textTime is fixed width so that text comparison orders like time.
const textTime = "2006-01-02T15:04:05.000000000Z"

func (d Dialect) time(t time.Time) any {
	if d.nativeTime {
		return t.UTC()
	}
	return t.UTC().Format(textTime)
}

// timeValue scans either a native time or its text encoding.
type timeValue struct{ t *time.Time }

func (v timeValue) Scan(src any) error {
	switch x := src.(type) {
	case time.Time:
		*v.t = x.UTC()
		return nil
	case string:
		return v.parse(x)
	case []byte:
		return v.parse(string(x))
	case nil:
		*v.t = time.Time{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into time", src)
	}
}

func (v timeValue) parse(s string) error {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("parse stored time %q: %w", s, err)
	}
	*v.t = t.UTC()
	return nil
}

func nullable[T any](p *T) driver.Value {
	if p == nil {
		return nil
	}
	return *p
}

package database

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// Fields are the free-text connection fields of the configuration panel.
// Path is only used for SQLite; the other fields only for server kinds.
type Fields struct {
	Host     string
	User     string
	Password string
	Database string
	Port     string
	Path     string
}

// BuildURI substitutes fields verbatim into the descriptor template of kind.
// No field is validated or escaped; malformed values surface when the
// descriptor is opened.
func BuildURI(kind Kind, f Fields) (string, error) {
	switch kind {
	case KindPostgres:
		return "postgresql+psycopg2://" + f.User + ":" + f.Password + "@" + f.Host + ":" + f.Port + "/" + f.Database, nil
	case KindMySQL:
		return "mysql+pymysql://" + f.User + ":" + f.Password + "@" + f.Host + ":" + f.Port + "/" + f.Database, nil
	case KindSQLite:
		return "sqlite:///" + f.Path, nil
	default:
		return "", fmt.Errorf("unsupported database kind %q", kind)
	}
}

// Target is a descriptor resolved to something database/sql can open.
type Target struct {
	Dialect SQLDialect
	// DSN is in the form the driver for Dialect expects.
	DSN string
	// Database is the database name, or the file path for SQLite.
	Database string
}

// ParseURI resolves a connection descriptor. Both the template schemes
// (postgresql+psycopg2, mysql+pymysql) and plain postgres://, postgresql://,
// mysql:// and sqlite:// are accepted.
func ParseURI(uri string) (Target, error) {
	scheme, rest, ok := strings.Cut(uri, "://")
	if !ok {
		return Target{}, errors.New("invalid connection string: missing scheme")
	}
	base, _, _ := strings.Cut(strings.ToLower(scheme), "+")

	switch base {
	case "postgres", "postgresql":
		parts, err := parseServerURI(rest)
		if err != nil {
			return Target{}, err
		}
		dsn := url.URL{
			Scheme:   "postgres",
			Host:     parts.address(),
			Path:     "/" + parts.database,
			RawQuery: parts.query,
		}
		if parts.hasPassword {
			dsn.User = url.UserPassword(parts.user, parts.password)
		} else if parts.user != "" {
			dsn.User = url.User(parts.user)
		}
		return Target{
			Dialect:  PostgreSQL,
			DSN:      dsn.String(),
			Database: parts.database,
		}, nil

	case "mysql":
		parts, err := parseServerURI(rest)
		if err != nil {
			return Target{}, err
		}
		cfg := mysql.NewConfig()
		cfg.User = parts.user
		cfg.Passwd = parts.password
		cfg.Net = "tcp"
		cfg.Addr = parts.address()
		cfg.DBName = parts.database
		cfg.ParseTime = true
		if parts.query != "" {
			q, err := url.ParseQuery(parts.query)
			if err != nil {
				return Target{}, fmt.Errorf("invalid connection string: %w", err)
			}
			cfg.Params = make(map[string]string, len(q))
			for k := range q {
				cfg.Params[k] = q.Get(k)
			}
		}
		return Target{
			Dialect:  MySQL,
			DSN:      cfg.FormatDSN(),
			Database: cfg.DBName,
		}, nil

	case "sqlite", "sqlite3":
		path := strings.TrimPrefix(rest, "/")
		if path == "" {
			path = ":memory:"
		}
		return Target{Dialect: SQLite, DSN: path, Database: path}, nil

	default:
		return Target{}, fmt.Errorf("unsupported connection scheme %q", scheme)
	}
}

// serverURIPattern splits user:password@host:port/database?query. The
// password runs up to the '@', so it may hold '#', '?', '/' or '%'.
var serverURIPattern = regexp.MustCompile(
	`^(?:([^:/]*)(?::([^@]*))?@)?` +
		`(?:\[([^/?]+)\]|([^/:?]+))?` +
		`(?::([^/?]*))?` +
		`(?:/([^?]*))?` +
		`(?:\?(.*))?$`)

type serverURI struct {
	user        string
	password    string
	hasPassword bool
	host        string
	port        string
	database    string
	query       string
}

func (s serverURI) address() string {
	if s.port == "" {
		return s.host
	}
	return s.host + ":" + s.port
}

// parseServerURI parses the part after "://". Errors never echo the input,
// since it carries the password.
func parseServerURI(rest string) (serverURI, error) {
	m := serverURIPattern.FindStringSubmatchIndex(rest)
	if m == nil {
		return serverURI{}, errors.New("invalid connection string: malformed address")
	}
	group := func(i int) (string, bool) {
		if m[2*i] < 0 {
			return "", false
		}
		return rest[m[2*i]:m[2*i+1]], true
	}

	var s serverURI
	user, _ := group(1)
	s.user = unquote(user)
	if password, ok := group(2); ok {
		s.password = unquote(password)
		s.hasPassword = true
	}
	if v6, ok := group(3); ok {
		s.host = "[" + v6 + "]"
	} else {
		s.host, _ = group(4)
	}
	s.port, _ = group(5)
	s.database, _ = group(6)
	s.query, _ = group(7)

	if s.port != "" {
		if _, err := strconv.Atoi(s.port); err != nil {
			return serverURI{}, fmt.Errorf("invalid connection string: invalid port %q", s.port)
		}
	}
	return s, nil
}

// unquote decodes percent escapes, keeping the text as is when it holds
// an invalid escape such as a bare '%'.
func unquote(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	if decoded, err := url.PathUnescape(s); err == nil {
		return decoded
	}
	return s
}

// Redact replaces the password of a descriptor with "xxxxx".
func Redact(uri string) string {
	scheme, rest, ok := strings.Cut(uri, "://")
	if !ok {
		return uri
	}
	at := strings.LastIndex(rest, "@")
	if at < 0 {
		return uri
	}
	user, _, hasPassword := strings.Cut(rest[:at], ":")
	if !hasPassword {
		return uri
	}
	return scheme + "://" + user + ":xxxxx" + rest[at:]
}

package config

import (
	"net/url"
	"regexp"
)

const redacted = "xxxxx"

var dsnPassword = regexp.MustCompile(`(?i)(password\s*=\s*)('[^']*'|\S+)`)

// Redacted returns a copy of c with the database password masked.
func (c Config) Redacted() Config {
	c.Store.DatabaseURL = RedactDSN(c.Store.DatabaseURL)
	if c.Server.CORSOrigins != nil {
		c.Server.CORSOrigins = append([]string(nil), c.Server.CORSOrigins...)
	}
	return c
}

// RedactDSN masks the password in a postgres:// URL or a key=value
// connection string.
func RedactDSN(dsn string) string {
	if dsn == "" {
		return dsn
	}
	if u, err := url.Parse(dsn); err == nil && u.Scheme != "" && u.User != nil {
		if _, ok := u.User.Password(); ok {
			u.User = url.UserPassword(u.User.Username(), redacted)
		}
		return u.String()
	}
	return dsnPassword.ReplaceAllString(dsn, "${1}"+redacted)
}

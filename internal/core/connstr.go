package core

import (
	"fmt"
	"strings"

	"github.com/minereport/dwquery/pkg/config"
)

// ConnString assembles the ODBC connection string for a project. Encryption
// stays off and the server certificate is trusted, matching what the
// warehouse endpoints expect.
func ConnString(p config.Project) (string, error) {
	fields := []struct {
		name, value string
	}{
		{"driver", p.Driver},
		{"server", p.Server},
		{"database", p.Database},
		{"user", p.User},
		{"password", p.Password},
	}
	for _, f := range fields {
		if f.value == "" {
			return "", fmt.Errorf("connection field %s is empty", f.name)
		}
		if strings.ContainsRune(f.value, 0) {
			return "", fmt.Errorf("connection field %s contains a NUL byte", f.name)
		}
	}

	return fmt.Sprintf(
		"DRIVER={%s};SERVER=%s;DATABASE=%s;UID=%s;PWD=%s;Encrypt=no;TrustServerCertificate=yes;",
		strings.ReplaceAll(p.Driver, "}", "}}"),
		escape(p.Server),
		escape(p.Database),
		escape(p.User),
		escape(p.Password),
	), nil
}

// escape brace-quotes a value when it contains characters the ODBC
// string syntax would otherwise swallow. A literal '}' inside a quoted
// value is doubled per the ODBC escaping rule.
func escape(v string) string {
	if !strings.ContainsAny(v, ";{}") && v == strings.TrimSpace(v) {
		return v
	}
	return "{" + strings.ReplaceAll(v, "}", "}}") + "}"
}

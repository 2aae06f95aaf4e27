package mariadb

import (
	"strings"
	"testing"

	"github.com/go-sql-driver/mysql"
)

func TestNormalizeDSN(t *testing.T) {
	tests := []struct {
		name string
		dsn  string
	}{
		{"plain", "user:pw@tcp(localhost:3306)/attendance"},
		{"parseTime forced off", "user:pw@tcp(localhost:3306)/attendance?parseTime=true"},
		{"other params kept", "user:pw@tcp(localhost:3306)/attendance?parseTime=true&timeout=5s"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := normalizeDSN(tc.dsn)
			if err != nil {
				t.Fatalf("normalizeDSN(%q): %v", tc.dsn, err)
			}
			parsed, err := mysql.ParseDSN(got)
			if err != nil {
				t.Fatalf("normalized DSN %q does not parse: %v", got, err)
			}
			if parsed.ParseTime {
				t.Errorf("expected parseTime=false in %q", got)
			}
			if parsed.DBName != "attendance" {
				t.Errorf("DBName = %q, want attendance", parsed.DBName)
			}
		})
	}
}

func TestNormalizeDSNInvalid(t *testing.T) {
	_, err := normalizeDSN("user:pw@tcp(localhost:3306")
	if err == nil {
		t.Fatal("expected error for malformed DSN")
	}
	if !strings.Contains(err.Error(), "invalid MariaDB DSN") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNewPoolRequiresDSN(t *testing.T) {
	if _, err := NewPool(nil); err == nil {
		t.Error("expected error for nil config")
	}
}

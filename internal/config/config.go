package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const defaultConnectionString = "Host=localhost;Port=5432;Database=bank_teller_db;Username=postgres;Password=postgres;Timeout=30;CommandTimeout=30"
const defaultLockWaitTimeout = 5 * time.Second

type Config struct {
	DatabaseDSN     string
	MigrationsDir   string
	LockWaitTimeout time.Duration
}

func Load() (Config, error) {
	conn := strings.TrimSpace(os.Getenv("DATABASE_DSN"))
	if conn == "" {
		conn = defaultConnectionString
	}

	lockWait := defaultLockWaitTimeout
	if raw := strings.TrimSpace(os.Getenv("LOCK_WAIT_TIMEOUT")); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse LOCK_WAIT_TIMEOUT %q: %w", raw, err)
		}
		if parsed <= 0 {
			return Config{}, fmt.Errorf("LOCK_WAIT_TIMEOUT must be positive, got %q", raw)
		}
		lockWait = parsed
	}

	migrationsDir := strings.TrimSpace(os.Getenv("MIGRATIONS_DIR"))
	if migrationsDir == "" {
		migrationsDir = filepath.Join(".", "migrations")
	}

	return Config{
		DatabaseDSN:     normalizeConnectionString(conn),
		MigrationsDir:   migrationsDir,
		LockWaitTimeout: lockWait,
	}, nil
}

// normalizeConnectionString converts the legacy "Key=Value;" connection
// string format into a libpq keyword DSN.
func normalizeConnectionString(raw string) string {
	parts := strings.Split(raw, ";")
	out := make([]string, 0, len(parts))
	hasSSLMode := false

	for _, part := range parts {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}

		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(kv[0]))
		val := strings.TrimSpace(kv[1])

		switch key {
		case "host":
			out = append(out, "host="+val)
		case "port":
			out = append(out, "port="+val)
		case "database":
			out = append(out, "dbname="+val)
		case "username":
			out = append(out, "user="+val)
		case "password":
			out = append(out, "password="+val)
		case "timeout", "connect timeout":
			out = append(out, "connect_timeout="+val)
		case "commandtimeout", "command timeout":
			out = append(out, "statement_timeout="+val+"s")
		case "sslmode":
			hasSSLMode = true
			out = append(out, "sslmode="+val)
		default:
			out = append(out, key+"="+val)
		}
	}

	if len(out) == 0 {
		return raw
	}

	if !hasSSLMode {
		out = append(out, "sslmode=disable")
	}

	return strings.Join(out, " ")
}

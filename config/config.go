package config

import (
	"os"
	"strconv"
	"strings"
)

var (
	TLS_DOMAINS   = ""            // e.g. "example.com,example2.com"
	MYSQL_DSN     = ""            // MySQL will be used if this is set
	SQLITE_FILE   = "postgram.db" // SQLite will be used if MYSQL_DSN is not configured
	BIND_ADDRESS  = "0.0.0.0:8080"
	MEDIA_DIR     = "media" // Used for creating the initial image bucket
	TMP_DIR       = "/tmp"  // Local scratch space (in case of S3 bucket)
	NOMINATIM_URL = "https://nominatim.openstreetmap.org"
	// The geocoding call is synchronous with the request that triggers it,
	// so keep this short
	GEOCODE_TIMEOUT_SECONDS = 10
	DEBUG_MODE              = true
)

func init() {
	readEnvString("TLS_DOMAINS", &TLS_DOMAINS)
	readEnvString("MYSQL_DSN", &MYSQL_DSN)
	readEnvString("SQLITE_FILE", &SQLITE_FILE)
	readEnvString("BIND_ADDRESS", &BIND_ADDRESS)
	readEnvString("MEDIA_DIR", &MEDIA_DIR)
	readEnvString("TMP_DIR", &TMP_DIR)
	readEnvString("NOMINATIM_URL", &NOMINATIM_URL)
	readEnvInt("GEOCODE_TIMEOUT_SECONDS", &GEOCODE_TIMEOUT_SECONDS)
	readEnvBool("DEBUG_MODE", &DEBUG_MODE)
}

func readEnvString(name string, value *string) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	*value = v
}

func readEnvBool(name string, value *bool) {
	v := strings.ToLower(os.Getenv(name))
	if v == "true" || v == "1" || v == "yes" || v == "on" {
		*value = true
	} else if v == "false" || v == "0" || v == "no" || v == "off" {
		*value = false
	}
}

func readEnvInt(name string, value *int) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	f, err := strconv.Atoi(v)
	if err != nil {
		return
	}
	*value = f
}

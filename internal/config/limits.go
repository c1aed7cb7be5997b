package config

import (
	"os"
	"strconv"
	"strings"
)

// Limits caps how much each user may keep in their registry.
type Limits struct {
	MaxFilesPerUser int
	MaxFileBytes    int64
}

func LoadLimits() Limits {
	return Limits{
		MaxFilesPerUser: EnvInt("MAX_FILES_PER_USER", 5),
		MaxFileBytes:    int64(EnvInt("MAX_FILE_SIZE_MB", 10)) << 20,
	}
}

func EnvInt(name string, def int) int {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvString(name, def string) string {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	return v
}

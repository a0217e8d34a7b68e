package infra

import (
	"log/slog"
	"strings"
	"time"
)

// ResolveLocation loads an IANA zone name, falling back to def when the name
// is blank or unknown.
func ResolveLocation(name string, def *time.Location, logger *slog.Logger) *time.Location {
	if def == nil {
		def = time.UTC
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return def
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		logger.Warn("unknown restaurant timezone, using default",
			slog.String("timezone", name),
			slog.String("default", def.String()))
		return def
	}
	return loc
}

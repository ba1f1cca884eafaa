package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"auction-matcher/internal/auction/model"
)

type Config struct {
	Host         string
	Port         int
	AllowOrigins []string
	LogLevel     string
	MaxUploadMB  int
	LogFile      string

	MatchThreshold      float64
	AutoAssignThreshold float64
	GroupThreshold      float64

	// Warnings — значения окружения, которые отброшены в пользу дефолтов.
	Warnings []string
}

func Load() Config {
	return load(os.LookupEnv)
}

func load(lookup func(string) (string, bool)) Config {
	e := env{lookup: lookup}
	def := model.DefaultOptions()

	cfg := Config{
		Host:         e.str("HOST", "127.0.0.1"),
		Port:         e.intIn("PORT", 8082, 1, 65535),
		AllowOrigins: splitList(e.str("ALLOW_ORIGINS", "*")),
		LogLevel:     e.str("LOG_LEVEL", "info"),
		MaxUploadMB:  e.intIn("MAX_UPLOAD_MB", 32, 1, 1024),
		LogFile:      e.str("LOG_FILE", "logs/auction-matcher.log"),

		MatchThreshold:      e.ratio("MATCH_THRESHOLD", def.MatchThreshold),
		AutoAssignThreshold: e.ratio("AUTO_ASSIGN_THRESHOLD", def.AutoAssignThreshold),
		GroupThreshold:      e.ratio("GROUP_THRESHOLD", def.GroupThreshold),
	}
	if cfg.AutoAssignThreshold < cfg.MatchThreshold {
		e.warn("AUTO_ASSIGN_THRESHOLD %.2f is below MATCH_THRESHOLD %.2f, using defaults",
			cfg.AutoAssignThreshold, cfg.MatchThreshold)
		cfg.MatchThreshold = def.MatchThreshold
		cfg.AutoAssignThreshold = def.AutoAssignThreshold
	}
	cfg.Warnings = e.warnings
	return cfg
}

func (c Config) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

func (c Config) MaxUploadBytes() int64 { return int64(c.MaxUploadMB) << 20 }

// Options — пороги движка из окружения.
func (c Config) Options() model.Options {
	return model.Options{
		MatchThreshold:      c.MatchThreshold,
		AutoAssignThreshold: c.AutoAssignThreshold,
		GroupThreshold:      c.GroupThreshold,
	}
}

type env struct {
	lookup   func(string) (string, bool)
	warnings []string
}

func (e *env) warn(format string, args ...any) {
	e.warnings = append(e.warnings, fmt.Sprintf(format, args...))
}

func (e *env) str(k, def string) string {
	if v, ok := e.lookup(k); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func (e *env) intIn(k string, def, lo, hi int) int {
	raw, ok := e.lookup(k)
	if !ok || strings.TrimSpace(raw) == "" {
		return def
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v < lo || v > hi {
		e.warn("%s=%q is not an integer in [%d, %d], using %d", k, raw, lo, hi, def)
		return def
	}
	return v
}

// ratio принимает доли из [0, 1]; запятая как десятичный разделитель тоже годится.
func (e *env) ratio(k string, def float64) float64 {
	raw, ok := e.lookup(k)
	if !ok || strings.TrimSpace(raw) == "" {
		return def
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(raw), ",", "."), 64)
	if err != nil || !(v >= 0 && v <= 1) {
		e.warn("%s=%q is not a number in [0, 1], using %.2f", k, raw, def)
		return def
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

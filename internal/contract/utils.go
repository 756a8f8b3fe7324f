package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// Time-of-day label constants. Bands follow the hour colour scale.
const (
	NightValue     = "Night"     // 00:00-06:00
	MorningValue   = "Morning"   // 06:00-12:00
	AfternoonValue = "Afternoon" // 12:00-18:00
	EveningValue   = "Evening"   // 18:00-24:00
)

// Color variables for console output.
var (
	NightColor     = color.New(color.FgBlue, color.Bold)
	MorningColor   = color.New(color.FgYellow)
	AfternoonColor = color.New(color.FgRed)
	EveningColor   = color.New(color.FgMagenta)
)

// GetPlainLabel returns the time-of-day band of an hour fraction in [0,24).
// This is the label used for CSV, JSON, and table printing.
func GetPlainLabel(hourFrac float64) string {
	switch {
	case hourFrac < 6:
		return NightValue
	case hourFrac < 12:
		return MorningValue
	case hourFrac < 18:
		return AfternoonValue
	default:
		return EveningValue
	}
}

// GetColorLabel returns a colored time-of-day label for console output (table).
func GetColorLabel(hourFrac float64) string {
	text := GetPlainLabel(hourFrac)

	switch text {
	case NightValue:
		return NightColor.Sprint(text)
	case MorningValue:
		return MorningColor.Sprint(text)
	case AfternoonValue:
		return AfternoonColor.Sprint(text)
	default:
		return EveningColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "💥 Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "⚠️  Warn %s: %v\n", msg, err)
}

// LogInfo logs a status line to stderr.
func LogInfo(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, "🔎 "+format+"\n", args...)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for snapshot storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".commitscope_cache.db"
	}
	return filepath.Join(homeDir, ".commitscope_cache.db")
}

// TruncatePath truncates a file path to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 so the "..." prefix leaves room for content.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

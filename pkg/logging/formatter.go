// Package logging provides the terminal log formatter used by the daemon.
package logging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
)

// priorityFields are printed first, in this order, and highlighted
var priorityFields = []string{
	"chain_side",
	"stage",
	"source",
	"gas_price",
	"error",
}

// ColoredFormatter renders entries as one colored key=value line
type ColoredFormatter struct {
	// TimestampFormat is the layout for the time column
	TimestampFormat string
	// DisableColors strips ANSI codes, e.g. when not writing to a terminal
	DisableColors bool
}

// NewColoredFormatter returns a formatter with RFC3339 timestamps
func NewColoredFormatter() *ColoredFormatter {
	return &ColoredFormatter{
		TimestampFormat: time.RFC3339,
	}
}

// Format implements logrus.Formatter
func (f *ColoredFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	b := entry.Buffer
	if b == nil {
		b = &bytes.Buffer{}
	}

	levelColor := levelColor(entry.Level)
	keyColor := color.New(color.FgCyan)
	priorityColor := color.New(color.FgGreen)
	timeColor := color.New(color.FgYellow)
	for _, c := range []*color.Color{levelColor, keyColor, priorityColor, timeColor} {
		if f.DisableColors {
			c.DisableColor()
		} else {
			c.EnableColor()
		}
	}

	b.WriteString(timeColor.Sprint(entry.Time.Format(f.TimestampFormat)))
	b.WriteByte(' ')
	b.WriteString(levelColor.Sprintf("%-7s", strings.ToUpper(entry.Level.String())))
	b.WriteByte(' ')
	b.WriteString(levelColor.Sprint(entry.Message))

	for _, k := range sortedKeys(entry.Data) {
		kc := keyColor
		if isPriority(k) {
			kc = priorityColor
		}
		b.WriteByte(' ')
		b.WriteString(kc.Sprintf("%s=", k))
		b.WriteString(formatValue(entry.Data[k]))
	}

	b.WriteByte('\n')
	return b.Bytes(), nil
}

func formatValue(v interface{}) string {
	switch v := v.(type) {
	case string:
		return fmt.Sprintf("%q", v)
	case error:
		return fmt.Sprintf("%q", v.Error())
	case fmt.Stringer:
		return fmt.Sprintf("%q", v.String())
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(raw)
	}
}

func levelColor(level logrus.Level) *color.Color {
	switch level {
	case logrus.TraceLevel, logrus.DebugLevel:
		return color.New(color.FgBlue)
	case logrus.InfoLevel:
		return color.New(color.FgGreen)
	case logrus.WarnLevel:
		return color.New(color.FgYellow)
	case logrus.ErrorLevel:
		return color.New(color.FgRed)
	case logrus.FatalLevel, logrus.PanicLevel:
		return color.New(color.FgRed, color.Bold)
	default:
		return color.New(color.FgWhite)
	}
}

func isPriority(key string) bool {
	for _, p := range priorityFields {
		if p == key {
			return true
		}
	}
	return false
}

// sortedKeys orders priority fields first, the rest alphabetically
func sortedKeys(data logrus.Fields) []string {
	rank := func(k string) int {
		for i, p := range priorityFields {
			if p == k {
				return i
			}
		}
		return len(priorityFields)
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ri, rj := rank(keys[i]), rank(keys[j])
		if ri != rj {
			return ri < rj
		}
		return keys[i] < keys[j]
	})
	return keys
}

// NewLogger builds the daemon logger. level is parsed with logrus.ParseLevel;
// an empty or invalid level yields info and a warning.
func NewLogger(level string, jsonOutput bool) *logrus.Logger {
	log := logrus.New()
	if jsonOutput {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(NewColoredFormatter())
	}

	if lvl, err := logrus.ParseLevel(level); err == nil {
		log.SetLevel(lvl)
	} else {
		log.SetLevel(logrus.InfoLevel)
		if level != "" {
			log.WithFields(logrus.Fields{
				"attempted_level": level,
				"default_level":   "INFO",
			}).Warn("Invalid log level specified, defaulting to INFO")
		}
	}
	return log
}

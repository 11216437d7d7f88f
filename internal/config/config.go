package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/pelletier/go-toml/v2"
	"github.com/smazurov/warpcore/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// EnvPrefix is prepended to every env tag.
const EnvPrefix = "WARPCORE_"

// optionField is one settable field of an options struct with its sources.
type optionField struct {
	value reflect.Value
	flag  string
	toml  string
	env   string
}

// LoadConfig fills opts with precedence CLI flag > env var > config file >
// default. opts must point to a struct; a string field named Config holds
// the TOML path. If cmd is given, flags set on the command line are left
// alone.
func LoadConfig(opts any, cmd *cobra.Command) error {
	v := reflect.ValueOf(opts)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("options must be a pointer to a struct, got %T", opts)
	}
	v = v.Elem()

	changed := make(map[string]bool)
	if cmd != nil {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			if f.Changed {
				changed[f.Name] = true
			}
		})
	}

	var fields []optionField
	configPath := ""
	for i := range v.NumField() {
		sf := v.Type().Field(i)
		if sf.Name == "Config" && sf.Type.Kind() == reflect.String {
			configPath = v.Field(i).String()
		}
		f := optionField{
			value: v.Field(i),
			flag:  fieldNameToFlag(sf.Name),
			toml:  sf.Tag.Get("toml"),
			env:   sf.Tag.Get("env"),
		}
		if f.value.CanSet() && !changed[f.flag] {
			fields = append(fields, f)
		}
	}

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err == nil {
			var file map[string]any
			if err := toml.Unmarshal(data, &file); err != nil {
				return fmt.Errorf("failed to parse TOML config: %w", err)
			}
			for _, f := range fields {
				if f.toml == "" {
					continue
				}
				if value := getNestedValue(file, f.toml); value != nil {
					setFieldValue(f.value, value)
				}
			}
		}
	}

	for _, f := range fields {
		if f.env == "" {
			continue
		}
		if envValue := os.Getenv(EnvPrefix + f.env); envValue != "" {
			setFieldValueFromString(f.value, envValue)
		}
	}

	return nil
}

// fieldNameToFlag converts a struct field name to a CLI flag name.
// Example: "LoggingLevel" -> "logging-level", "Port" -> "port".
func fieldNameToFlag(fieldName string) string {
	var b strings.Builder
	for i, r := range fieldName {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte('-')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// getNestedValue walks dotted path through nested TOML tables.
func getNestedValue(data map[string]any, path string) any {
	keys := strings.Split(path, ".")
	table := data
	for _, key := range keys[:len(keys)-1] {
		next, ok := table[key].(map[string]any)
		if !ok {
			return nil
		}
		table = next
	}
	return table[keys[len(keys)-1]]
}

// setFieldValue assigns a decoded TOML value. Values of the wrong type, out
// of range or negative for unsigned fields are ignored.
func setFieldValue(field reflect.Value, value any) {
	switch field.Kind() {
	case reflect.String:
		if s, ok := value.(string); ok {
			field.SetString(s)
		}
	case reflect.Bool:
		if b, ok := value.(bool); ok {
			field.SetBool(b)
		}
	case reflect.Int, reflect.Int64:
		if i, ok := tomlInt(value); ok && !field.OverflowInt(i) {
			field.SetInt(i)
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32:
		if i, ok := tomlInt(value); ok && i >= 0 && !field.OverflowUint(uint64(i)) {
			field.SetUint(uint64(i))
		}
	case reflect.Float64:
		switch f := value.(type) {
		case float64:
			field.SetFloat(f)
		case int64:
			field.SetFloat(float64(f))
		}
	case reflect.Slice:
		arr, ok := value.([]any)
		if !ok || field.Type().Elem().Kind() != reflect.String {
			return
		}
		out := make([]string, 0, len(arr))
		for _, item := range arr {
			if s, isString := item.(string); isString {
				out = append(out, s)
			}
		}
		field.Set(reflect.ValueOf(out))
	}
}

func tomlInt(value any) (int64, bool) {
	switch i := value.(type) {
	case int64:
		return i, true
	case int:
		return int64(i), true
	}
	return 0, false
}

// setFieldValueFromString parses an env var into field. Unparsable values
// are ignored; string slices are comma separated.
func setFieldValueFromString(field reflect.Value, value string) {
	bits := 64
	switch field.Kind() {
	case reflect.Int, reflect.Int64, reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Float64:
		bits = field.Type().Bits()
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Bool:
		if b, err := strconv.ParseBool(value); err == nil {
			field.SetBool(b)
		}
	case reflect.Int, reflect.Int64:
		if i, err := strconv.ParseInt(value, 10, bits); err == nil {
			field.SetInt(i)
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32:
		if u, err := strconv.ParseUint(value, 10, bits); err == nil {
			field.SetUint(u)
		}
	case reflect.Float64:
		if f, err := strconv.ParseFloat(value, bits); err == nil {
			field.SetFloat(f)
		}
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return
		}
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		field.Set(reflect.ValueOf(parts))
	}
}

// LoadLoggingConfig loads logging configuration from a TOML config file.
// Returns default config if file doesn't exist or can't be parsed.
func LoadLoggingConfig(configPath string) logging.Config {
	cfg, err := ReadLoggingConfig(configPath)
	if err != nil {
		return defaultLoggingConfig()
	}
	return cfg
}

// ReadLoggingConfig parses the [logging] section of a TOML config file.
// Module levels may be flat keys under [logging] or a [logging.modules] table;
// the table wins when both name the same module. An empty path yields the
// defaults.
func ReadLoggingConfig(configPath string) (logging.Config, error) {
	cfg := defaultLoggingConfig()
	if configPath == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	var rawConfig struct {
		Logging map[string]any `toml:"logging"`
	}
	if err := toml.Unmarshal(data, &rawConfig); err != nil {
		return cfg, fmt.Errorf("failed to parse TOML config: %w", err)
	}

	var table map[string]any
	for key, value := range rawConfig.Logging {
		switch key {
		case "level":
			if s, ok := value.(string); ok {
				cfg.Level = s
			}
		case "format":
			if s, ok := value.(string); ok {
				cfg.Format = s
			}
		case "modules":
			table, _ = value.(map[string]any)
		default:
			if s, ok := value.(string); ok {
				cfg.Modules[key] = s
			}
		}
	}

	for module, value := range table {
		if s, ok := value.(string); ok {
			cfg.Modules[module] = s
		}
	}

	return cfg, nil
}

func defaultLoggingConfig() logging.Config {
	return logging.Config{
		Level:   "info",
		Format:  "text",
		Modules: make(map[string]string),
	}
}

package config

import (
	"strconv"
	"strings"
)

// ApplyKVOverrides applies free-form --set key=value overrides. Unknown
// keys and unparsable values are skipped.
func ApplyKVOverrides(cfg Config, overrides []string) Config {
	for _, raw := range overrides {
		parts := strings.SplitN(raw, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		val := strings.TrimSpace(parts[1])
		switch key {
		case "count":
			if n, err := strconv.Atoi(val); err == nil {
				cfg.Count = n
			}
		case "backend":
			cfg.Backend = val
		case "git_binary":
			cfg.GitBinary = val
		case "log_file":
			cfg.LogFile = val
		case "watch":
			if b, err := strconv.ParseBool(val); err == nil {
				cfg.Watch = b
			}
		case "theme.row_tint":
			cfg.Theme.RowTint = val
		case "theme.accent":
			cfg.Theme.Accent = val
		case "layout.line_height":
			if n, err := strconv.Atoi(val); err == nil {
				cfg.Layout.LineHeight = n
			}
		case "layout.vertical_spacing":
			if n, err := strconv.Atoi(val); err == nil {
				cfg.Layout.VerticalSpacing = n
			}
		case "layout.padding":
			if n, err := strconv.Atoi(val); err == nil {
				cfg.Layout.Padding = n
			}
		}
	}
	return cfg
}

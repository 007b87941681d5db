package systems

import (
	"fmt"
	"time"
)

func settingFloat(settings map[string]any, key string, def float64) float64 {
	switch v := settings[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case uint64:
		return float64(v)
	}
	return def
}

func settingBool(settings map[string]any, key string, def bool) bool {
	if v, ok := settings[key].(bool); ok {
		return v
	}
	return def
}

func settingDuration(settings map[string]any, key string, def time.Duration) (time.Duration, error) {
	switch v := settings[key].(type) {
	case nil:
		return def, nil
	case time.Duration:
		return v, nil
	case string:
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("setting %s: %w", key, err)
		}
		return d, nil
	case int:
		return time.Duration(v) * time.Second, nil
	}
	return 0, fmt.Errorf("setting %s: unsupported value %v", key, settings[key])
}

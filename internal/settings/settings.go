// settings holds the plugin configuration, including the persisted
// cursor-position table.
package settings

import (
	"encoding/json"
	"fmt"
	"time"

	"cursormark/internal/identity"
	"cursormark/internal/positions"
	"cursormark/internal/rules"
)

type Settings struct {
	Enabled        bool              `json:"enabled"`
	Strategy       identity.Strategy `json:"strategy"`
	GeneratedField string            `json:"generated_field"`
	UserField      string            `json:"user_field"`
	Include        string            `json:"include"`
	RestoreDelayMs int               `json:"restore_delay_ms"`

	Positions map[string]positions.Position `json:"positions"`
}

var defaultSettings = Settings{
	Enabled:        true,
	Strategy:       identity.StrategyPath,
	GeneratedField: "cursormark",
	UserField:      "",
	Include:        rules.Wildcard,
	RestoreDelayMs: 100,
}

// Merge overlays an arbitrary configuration object (for example LSP
// initialization options) onto base. Only fields present in src
// overwrite, so newly introduced fields keep their defaults.
func Merge(base Settings, src any) (Settings, error) {
	if src == nil {
		return base, nil
	}

	data, err := json.Marshal(src)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to marshal source: %w", err)
	}

	merged := base
	if err := json.Unmarshal(data, &merged); err != nil {
		return Settings{}, fmt.Errorf("failed to unmarshal into Settings: %w", err)
	}
	if !merged.Strategy.Valid() {
		return Settings{}, fmt.Errorf("unknown identifier strategy %q", merged.Strategy)
	}
	return merged, nil
}

// IdentifierField returns the front matter field name consulted by the
// active strategy. The path strategy has no field.
func (s Settings) IdentifierField() string {
	switch s.Strategy {
	case identity.StrategyGenerated:
		return s.GeneratedField
	case identity.StrategyUserField:
		return s.UserField
	}
	return ""
}

// Rules returns the parsed inclusion rule list.
func (s Settings) Rules() []string {
	return rules.Parse(s.Include)
}

// RestoreDelay returns the wait before a scheduled restoration fires.
func (s Settings) RestoreDelay() time.Duration {
	if s.RestoreDelayMs < 0 {
		return 0
	}
	return time.Duration(s.RestoreDelayMs) * time.Millisecond
}

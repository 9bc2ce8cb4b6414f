package bootstrap

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/waypointlabs/prizehunt/internal/anticheat"
	"github.com/waypointlabs/prizehunt/internal/config"
	"github.com/waypointlabs/prizehunt/internal/utils"
	"github.com/waypointlabs/prizehunt/internal/validation"
)

// AntiCheatConfigFromEnv builds the engine tunables from application config,
// starting from the documented production defaults.
func AntiCheatConfigFromEnv(cfg *config.Config) anticheat.Config {
	ac := anticheat.DefaultConfig()
	ac.MaxAttemptsPerMinute = cfg.AntiCheatMaxPerMinute
	ac.MaxSpeedMS = cfg.AntiCheatMaxSpeedMS
	ac.ScoreFloor = cfg.AntiCheatScoreFloor
	ac.FailOpen = cfg.AntiCheatFailOpen
	ac.DegradedScore = cfg.AntiCheatDegradedScore
	ac.AccuracyCeilingM = cfg.AntiCheatAccuracyCeiling
	return ac
}

// antiCheatOverride mirrors the JSON override file. Only present fields
// replace the environment-derived values.
type antiCheatOverride struct {
	MaxAttemptsPerMinute *int     `json:"max_attempts_per_minute,omitempty"`
	MaxSpeedMS           *float64 `json:"max_speed_ms,omitempty"`
	ScoreFloor           *float64 `json:"score_floor,omitempty"`
	FailOpen             *bool    `json:"fail_open,omitempty"`
	DegradedScore        *float64 `json:"degraded_score,omitempty"`
	AccuracyCeilingM     *float64 `json:"accuracy_ceiling_m,omitempty"`
}

// NewAntiCheatProvider creates the refreshing config provider. Operators can
// drop a JSON override file next to the binary to tighten heuristics during an
// incident without restarting; the file is re-read at most once per refresh
// interval.
func NewAntiCheatProvider(cfg *config.Config) *anticheat.RefreshingProvider {
	base := AntiCheatConfigFromEnv(cfg)

	load := func() (anticheat.Config, error) {
		merged, err := applyOverrideFile(base, AntiCheatOverridePath)
		if err != nil {
			return base, err
		}
		return merged, nil
	}

	initial, err := load()
	if err != nil {
		slog.Warn(LogMsgAntiCheatOverrideFailed, "path", AntiCheatOverridePath, "error", err)
		initial = base
	}
	slog.Info(LogMsgAntiCheatConfigLoaded,
		"max_per_minute", initial.MaxAttemptsPerMinute,
		"max_speed_ms", initial.MaxSpeedMS,
		"score_floor", initial.ScoreFloor,
		"fail_open", initial.FailOpen)

	provider := anticheat.NewRefreshingProvider(initial, cfg.AntiCheatConfigRefresh, load)
	provider.OnError = func(err error) {
		slog.Warn(LogMsgAntiCheatOverrideFailed, "path", AntiCheatOverridePath, "error", err)
	}
	return provider
}

// applyOverrideFile merges the override file into base. A missing file is not
// an error; the environment config simply stands. A present file is validated
// against its JSON schema so a malformed override cannot silently loosen the
// heuristics.
func applyOverrideFile(base anticheat.Config, path string) (anticheat.Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return base, nil
	}

	if _, err := os.Stat(AntiCheatSchemaPath); err == nil {
		if err := validation.NewSchemaValidator().ValidateFile(path, AntiCheatSchemaPath); err != nil {
			return base, err
		}
	}

	var override antiCheatOverride
	if err := utils.LoadJSON(path, &override); err != nil {
		return base, err
	}

	if override.MaxAttemptsPerMinute != nil {
		base.MaxAttemptsPerMinute = *override.MaxAttemptsPerMinute
	}
	if override.MaxSpeedMS != nil {
		base.MaxSpeedMS = *override.MaxSpeedMS
	}
	if override.ScoreFloor != nil {
		base.ScoreFloor = *override.ScoreFloor
	}
	if override.FailOpen != nil {
		base.FailOpen = *override.FailOpen
	}
	if override.DegradedScore != nil {
		base.DegradedScore = *override.DegradedScore
	}
	if override.AccuracyCeilingM != nil {
		base.AccuracyCeilingM = *override.AccuracyCeilingM
	}
	return base, nil
}

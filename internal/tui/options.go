package tui

import (
	"time"

	"github.com/misops/tickboard/internal/app"
)

// BoardConfig holds board display toggles.
type BoardConfig struct {
	ShowReporter     bool
	ShowDateFinished bool
}

// Option configures a Model.
type Option func(*Model)

// DefaultBoardConfig returns the stock display toggles.
func DefaultBoardConfig() BoardConfig {
	return BoardConfig{
		ShowReporter:     true,
		ShowDateFinished: true,
	}
}

// WithBoardConfig overrides the board display toggles.
func WithBoardConfig(cfg BoardConfig) Option {
	return func(m *Model) {
		m.boardCfg = cfg
	}
}

// WithClock overrides the model clock; tests pin transitions to fixed times.
func WithClock(clock func() time.Time) Option {
	return func(m *Model) {
		if clock != nil {
			m.clock = clock
		}
	}
}

// WithIDGenerator overrides the transition attempt ID source.
func WithIDGenerator(idGen app.IDGenerator) Option {
	return func(m *Model) {
		if idGen != nil {
			m.idGen = idGen
		}
	}
}

// Package ablate implements the corner-point decrement/sync/re-surface
// pipeline for one grid block: each step, some quantity is subtracted from
// a subset of cells' corner points (a stand-in for received particle flux
// or radiative energy), the result is synchronized across every cell that
// shares a corner, and the implicit surface is rebuilt from the updated
// values by the iso package.
//
// Ported from FixAblate (original_source/src/fix_ablate.cpp): decrement,
// sync, and the near-threshold snap are direct translations of that class's
// eponymous methods, restricted to the regular, non-adaptive brick
// gridblock.Block models, with no fix groups (every owned cell takes part).
// In 3D, every resurface pass also runs each owned cell through cut3d and
// records its split topology on the gridblock.Cell.
package ablate

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/rarefiedflow/ablate/gridblock"
	"github.com/rarefiedflow/ablate/surf"
)

// ErrConfigError is returned by NewDriver when a Config is internally
// inconsistent (spec's ConfigError category).
var ErrConfigError = errors.New("ablate: invalid configuration")

// ErrStepFailed names an aborted end of step. EndOfStep and Cluster.Step
// return the underlying error wrapped with context instead (no panic is
// raised or recovered), so no function in this package returns it.
var ErrStepFailed = errors.New("ablate: end of step aborted")

// Source supplies the per-step decrement amount for one cell, in the units
// of corner-point value (0..255 scale, matching the original's threshold
// range). Frequency is the number of simulation steps between values this
// source actually refreshes; Driver.Nevery must be a multiple of it.
type Source interface {
	Frequency() int
	Value(cellID uint64) float64
}

// ColumnSource adapts a plain per-local-cell-index array (as SPARTA's
// per-grid compute/fix vectors are laid out) into a Source keyed by global
// id, via a caller-supplied id-to-index lookup.
type ColumnSource struct {
	Column    []float64
	Freq      int
	IndexOf   func(cellID uint64) (int, bool)
}

func (s ColumnSource) Frequency() int { return s.Freq }

func (s ColumnSource) Value(cellID uint64) float64 {
	i, ok := s.IndexOf(cellID)
	if !ok || i < 0 || i >= len(s.Column) {
		return 0
	}
	return s.Column[i]
}

// Config configures one Driver.
type Config struct {
	Block  *gridblock.Block
	Store  surf.Store
	Source Source

	Thresh float64 // T: corner values >= Thresh are solid
	// Scale multiplies every Source.Value before it is applied
	// (fix_ablate.cpp's prefactor = nevery*scale for a compute/fix source).
	// RandomSource already applies its own fractional cell-selection gate,
	// so Scale should be left at 1 when Source is a RandomSource.
	Scale  float64
	Nevery int // simulation steps between EndOfStep calls

	Logger *log.Logger
}

func discardLogger() *log.Logger { return log.New(io.Discard, "", 0) }

func (c Config) validate() error {
	if c.Block == nil {
		return fmt.Errorf("%w: nil grid block", ErrConfigError)
	}
	if c.Store == nil {
		return fmt.Errorf("%w: nil surface store", ErrConfigError)
	}
	if c.Source == nil {
		return fmt.Errorf("%w: nil source", ErrConfigError)
	}
	if c.Nevery <= 0 {
		return fmt.Errorf("%w: nevery must be positive", ErrConfigError)
	}
	if freq := c.Source.Frequency(); freq <= 0 || c.Nevery%freq != 0 {
		return fmt.Errorf("%w: nevery (%d) must be a multiple of the source frequency (%d)", ErrConfigError, c.Nevery, freq)
	}
	return nil
}

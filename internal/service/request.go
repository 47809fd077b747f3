package service

import (
	"errors"
	"fmt"

	"github.com/godilite/supportsim/internal/catalog"
	"github.com/godilite/supportsim/internal/domain"
	"github.com/godilite/supportsim/internal/generator"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// GenerationRequest is everything a run depends on. Two runs with equal
// requests produce the same roster and tickets.
type GenerationRequest struct {
	Seed          uint64
	Window        domain.Window
	Headcount     []catalog.Headcount
	WeekdayVolume domain.IntRange
	WeekendVolume domain.IntRange
	// Catalog defaults to catalog.Default() when nil.
	Catalog *catalog.Catalog
}

// DefaultRequest returns the stock configuration for a window.
func DefaultRequest(seed uint64, window domain.Window) GenerationRequest {
	return GenerationRequest{
		Seed:          seed,
		Window:        window,
		Headcount:     catalog.DefaultHeadcount,
		WeekdayVolume: generator.DefaultWeekdayVolume,
		WeekendVolume: generator.DefaultWeekendVolume,
	}
}

func (r GenerationRequest) catalog() *catalog.Catalog {
	if r.Catalog != nil {
		return r.Catalog
	}
	return catalog.Default()
}

// Validate reports every configuration problem as ErrInvalidConfig.
func (r GenerationRequest) Validate() error {
	if r.Window.Start.IsZero() || r.Window.End.IsZero() {
		return fmt.Errorf("%w: window is not set", ErrInvalidConfig)
	}
	if r.Window.End.Before(r.Window.Start) {
		return fmt.Errorf("%w: window end %s is before start %s", ErrInvalidConfig,
			r.Window.End.Format("2006-01-02"), r.Window.Start.Format("2006-01-02"))
	}

	cat := r.catalog()
	total := 0
	for _, h := range r.Headcount {
		if _, ok := cat.Department(h.Department); !ok {
			return fmt.Errorf("%w: %v %q", ErrInvalidConfig, generator.ErrUnknownDepartment, h.Department)
		}
		if h.Agents < 0 {
			return fmt.Errorf("%w: %v for %q", ErrInvalidConfig, generator.ErrNegativeHeadcount, h.Department)
		}
		total += h.Agents
	}
	if total == 0 {
		return fmt.Errorf("%w: total headcount is zero", ErrInvalidConfig)
	}

	if err := r.WeekdayVolume.Validate(); err != nil {
		return fmt.Errorf("%w: weekday volume: %v", ErrInvalidConfig, err)
	}
	if err := r.WeekendVolume.Validate(); err != nil {
		return fmt.Errorf("%w: weekend volume: %v", ErrInvalidConfig, err)
	}
	return nil
}

package app

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nhle/momentum/internal/model"
	"github.com/nhle/momentum/internal/store"
)

//go:embed default_themes.yaml
var defaultThemesYAML []byte

// DefaultThemes parses the built-in theme set.
func DefaultThemes() ([]model.DailyTheme, error) {
	var doc struct {
		Themes []model.DailyTheme `yaml:"themes"`
	}
	if err := yaml.Unmarshal(defaultThemesYAML, &doc); err != nil {
		return nil, fmt.Errorf("parsing default themes: %w", err)
	}
	return doc.Themes, nil
}

// SeedDefaultThemes stores the built-in themes when no theme exists yet.
// It reports whether anything was written.
func (s *Service) SeedDefaultThemes(ctx context.Context) (bool, error) {
	defaults, err := DefaultThemes()
	if err != nil {
		return false, err
	}

	seeded := false
	err = s.write(ctx, "seed themes", func(r store.Repo) error {
		existing, err := r.GetThemes(ctx)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return nil
		}
		for _, th := range defaults {
			if err := r.PutTheme(ctx, th); err != nil {
				return err
			}
		}
		seeded = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if seeded {
		s.logger.Info("seeded default themes", "count", len(defaults))
	}
	return seeded, nil
}

// Themes lists the stored themes, Monday first and the weekend theme last.
func (s *Service) Themes(ctx context.Context) ([]model.DailyTheme, error) {
	return s.store.GetThemes(ctx)
}

// PutTheme creates or replaces the theme for theme.Day.
func (s *Service) PutTheme(ctx context.Context, theme model.DailyTheme) (*model.DailyTheme, error) {
	theme.Day = strings.ToLower(strings.TrimSpace(theme.Day))
	if !model.ValidDayKey(theme.Day) {
		return nil, fmt.Errorf("%w: unknown day %q", ErrValidation, theme.Day)
	}
	theme.Tags = dedupe(theme.Tags)
	if err := validate(&theme); err != nil {
		return nil, err
	}

	if err := s.write(ctx, "put theme", func(r store.Repo) error {
		return r.PutTheme(ctx, theme)
	}); err != nil {
		return nil, err
	}
	return &theme, nil
}

// DeleteTheme removes the theme for day.
func (s *Service) DeleteTheme(ctx context.Context, day string) error {
	return s.write(ctx, "delete theme", func(r store.Repo) error {
		return r.DeleteTheme(ctx, strings.ToLower(day))
	})
}

// ThemeForDay returns the theme for date's weekday, falling back to the
// weekend theme on Saturday and Sunday. It returns nil when none is set.
func (s *Service) ThemeForDay(ctx context.Context, date model.Date) (*model.DailyTheme, error) {
	wd := date.Weekday()
	theme, err := s.store.GetTheme(ctx, model.DayKey(wd))
	if errors.Is(err, store.ErrNotFound) && (wd == time.Saturday || wd == time.Sunday) {
		theme, err = s.store.GetTheme(ctx, model.WeekendThemeKey)
	}
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	return theme, err
}

// ThemeTasks returns the open tasks matching date's theme: those tagged
// with one of the theme's tags or explicitly assigned to the theme.
func (s *Service) ThemeTasks(ctx context.Context, date model.Date) (*model.DailyTheme, []model.Task, error) {
	theme, err := s.ThemeForDay(ctx, date)
	if err != nil || theme == nil {
		return theme, nil, err
	}

	open, notArchived := false, false
	tasks, err := s.store.GetTasks(ctx, store.TaskFilter{Completed: &open, Archived: &notArchived})
	if err != nil {
		return nil, nil, err
	}

	var matched []model.Task
	for _, t := range tasks {
		if t.ThemeID != nil && *t.ThemeID == theme.Day {
			matched = append(matched, t)
			continue
		}
		for _, tag := range theme.Tags {
			if t.HasTag(tag) {
				matched = append(matched, t)
				break
			}
		}
	}
	return theme, matched, nil
}

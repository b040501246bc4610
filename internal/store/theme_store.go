package store

import (
	"context"
	"fmt"

	"github.com/nhle/momentum/internal/model"
)

type themeRow struct {
	model.DailyTheme
	TagsJSON string `db:"tags"`
}

const themeColumns = "day, name, description, color, quote, tags"

// PutTheme inserts or replaces the theme for theme.Day.
func (r *repo) PutTheme(ctx context.Context, theme model.DailyTheme) error {
	tags, err := encodeJSON(theme.Tags, "[]")
	if err != nil {
		return fmt.Errorf("encoding tags for theme %s: %w", theme.Day, err)
	}

	_, err = r.q.ExecContext(ctx, `
		INSERT INTO daily_themes (`+themeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(day) DO UPDATE SET
			name = excluded.name, description = excluded.description,
			color = excluded.color, quote = excluded.quote, tags = excluded.tags`,
		theme.Day, theme.Name, theme.Description, theme.Color, theme.Quote, tags,
	)
	if err != nil {
		return fmt.Errorf("saving theme %s: %w", theme.Day, err)
	}
	return nil
}

// DeleteTheme removes the theme for day.
func (r *repo) DeleteTheme(ctx context.Context, day string) error {
	result, err := r.q.ExecContext(ctx, "DELETE FROM daily_themes WHERE day = ?", day)
	if err != nil {
		return fmt.Errorf("deleting theme %s: %w", day, err)
	}
	return checkAffected(result, "theme", day)
}

// GetTheme retrieves the theme stored under day.
func (r *repo) GetTheme(ctx context.Context, day string) (*model.DailyTheme, error) {
	var row themeRow
	err := r.q.GetContext(ctx, &row,
		"SELECT "+themeColumns+" FROM daily_themes WHERE day = ?", day)
	if err != nil {
		return nil, notFound(err, "theme", day)
	}
	theme := row.DailyTheme
	if theme.Tags, err = decodeStrings(row.TagsJSON); err != nil {
		return nil, fmt.Errorf("decoding tags for theme %s: %w", day, err)
	}
	return &theme, nil
}

// GetThemes returns every stored theme, Monday first and weekend last.
func (r *repo) GetThemes(ctx context.Context) ([]model.DailyTheme, error) {
	var rows []themeRow
	err := r.q.SelectContext(ctx, &rows, `
		SELECT `+themeColumns+` FROM daily_themes
		ORDER BY CASE day
			WHEN 'monday' THEN 1 WHEN 'tuesday' THEN 2 WHEN 'wednesday' THEN 3
			WHEN 'thursday' THEN 4 WHEN 'friday' THEN 5 WHEN 'saturday' THEN 6
			WHEN 'sunday' THEN 7 ELSE 8 END`)
	if err != nil {
		return nil, fmt.Errorf("querying themes: %w", err)
	}

	themes := make([]model.DailyTheme, 0, len(rows))
	for _, row := range rows {
		theme := row.DailyTheme
		if theme.Tags, err = decodeStrings(row.TagsJSON); err != nil {
			return nil, fmt.Errorf("decoding tags for theme %s: %w", theme.Day, err)
		}
		themes = append(themes, theme)
	}
	return themes, nil
}

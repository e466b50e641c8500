package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{name: "simple", title: "Learn Go", want: "learn-go"},
		{name: "punctuation", title: "Maths: GCSE & A-Level!", want: "maths-gcse-a-level"},
		{name: "accents", title: "Café Français", want: "cafe-francais"},
		{name: "surrounding spaces & dashes", title: "  --Piano lessons--  ", want: "piano-lessons"},
		{name: "runs of spaces", title: "one   two\tthree", want: "one-two-three"},
		{name: "underscores kept", title: "snake_case title", want: "snake_case-title"},
		{name: "non latin dropped", title: "日本語", want: ""},
		{name: "empty", title: "", want: ""},
		{name: "only symbols", title: "!!!", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.title); got != tt.want {
				t.Errorf("Slugify() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUniqueSlug(t *testing.T) {
	takenSet := func(slugs ...string) SlugTakenFunc {
		set := make(map[string]bool, len(slugs))
		for _, s := range slugs {
			set[s] = true
		}
		return func(_ context.Context, slug string) (bool, error) { return set[slug], nil }
	}
	errBoom := errors.New("boom")

	tests := []struct {
		name    string
		title   string
		taken   SlugTakenFunc
		want    string
		wantErr bool
	}{
		{name: "free", title: "Learn Go", taken: takenSet(), want: "learn-go"},
		{name: "first duplicate", title: "Learn Go", taken: takenSet("learn-go"), want: "learn-go-1"},
		{name: "second duplicate", title: "Learn Go", taken: takenSet("learn-go", "learn-go-1"), want: "learn-go-2"},
		{name: "first free suffix", title: "Learn Go", taken: takenSet("learn-go", "learn-go-2"), want: "learn-go-1"},
		{name: "empty base", title: "???", taken: takenSet(), want: ""},
		{name: "empty base taken", title: "", taken: takenSet("", "-1"), want: "-2"},
		{
			name: "lookup error", title: "Learn Go", wantErr: true,
			taken: func(context.Context, string) (bool, error) { return false, errBoom },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := UniqueSlug(context.Background(), tt.title, tt.taken)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

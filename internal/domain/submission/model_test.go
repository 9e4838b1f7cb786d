// internal/domain/submission/model_test.go

package submission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetHashtags(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"dedupes case-insensitively", []string{"Cats", "cats", "CATS"}, []string{"Cats"}},
		{"hash prefix matches bare tag", []string{"#cats", "cats"}, []string{"#cats"}},
		{"preserves first-seen order", []string{"b", "a", "B"}, []string{"b", "a"}},
		{"drops blanks", []string{"", "  ", "a"}, []string{"a"}},
		{"nil input", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Draft
			d.SetHashtags(tt.in)
			assert.Equal(t, tt.want, d.Hashtags)
		})
	}
}

func TestDraftEmpty(t *testing.T) {
	assert.True(t, Draft{}.Empty())
	assert.True(t, Draft{Category: CategoryHumor, Views: 10}.Empty())
	assert.False(t, Draft{URL: "https://a.com/1"}.Empty())
	assert.False(t, Draft{Title: "something"}.Empty())
}

func TestValidate(t *testing.T) {
	valid := Draft{
		URL:      "https://www.tiktok.com/@x/video/1",
		Title:    "Cat does taxes",
		Platform: PlatformTikTok,
		Category: CategoryHumor,
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name  string
		mut   func(d *Draft)
		field string
	}{
		{"missing url", func(d *Draft) { d.URL = " " }, "url"},
		{"short title", func(d *Draft) { d.Title = "ab" }, "title"},
		{"missing platform", func(d *Draft) { d.Platform = "" }, "platform"},
		{"unknown platform", func(d *Draft) { d.Platform = "myspace" }, "platform"},
		{"missing category", func(d *Draft) { d.Category = "" }, "category"},
		{"unknown category", func(d *Draft) { d.Category = "vibes" }, "category"},
		{"negative counts", func(d *Draft) { d.Likes = -1 }, "counts"},
		{"wave score too high", func(d *Draft) { d.WaveScore = 101 }, "wave_score"},
		{"wave score negative", func(d *Draft) { d.WaveScore = -1 }, "wave_score"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := valid
			tt.mut(&d)
			err := d.Validate()

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Contains(t, vErr.Fields, tt.field)
		})
	}
}

func TestValidateReportsAllViolations(t *testing.T) {
	err := Draft{}.Validate()

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Len(t, vErr.Fields, 4)
	assert.Equal(t, "invalid submission: category, platform, title, url", vErr.Error())
}

package gemini

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBios(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "json array",
			text: `["One", "Two", "Three"]`,
			want: []string{"One", "Two", "Three"},
		},
		{
			name: "fenced json",
			text: "```json\n[\"One\", \"Two\"]\n```",
			want: []string{"One", "Two"},
		},
		{
			name: "plain lines",
			text: "- First bio\n\n- \"Second bio\"\n",
			want: []string{"First bio", "Second bio"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBios(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseBios_Errors(t *testing.T) {
	_, err := ParseBios("   ")
	assert.Error(t, err)

	_, err = ParseBios(`["", "  "]`)
	assert.Error(t, err)
}

func TestParseBios_TruncatesLongBios(t *testing.T) {
	long := make([]rune, 400)
	for i := range long {
		long[i] = 'a'
	}

	got, err := ParseBios(`["` + string(long) + `"]`)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Len(t, []rune(got[0]), maxBioLength)
}

func TestFallbackBios(t *testing.T) {
	bios := FallbackBios(BioInput{
		DisplayName: "Sam",
		Interests:   []string{"hiking", "jazz", "cooking", "chess"},
		Values:      []string{"honesty", "kindness"},
	})

	require.Len(t, bios, 3)
	assert.Contains(t, bios[0], "Sam here")
	assert.Contains(t, bios[0], "hiking, jazz, cooking")
	assert.NotContains(t, bios[0], "chess")
	for _, b := range bios {
		assert.LessOrEqual(t, len([]rune(b)), maxBioLength)
	}

	assert.Len(t, FallbackBios(BioInput{}), 3)
}

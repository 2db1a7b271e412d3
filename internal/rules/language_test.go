package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLanguageHint(t *testing.T) {
	detector := VietnameseHeuristic{}

	tests := []struct {
		name string
		text string
		want Locale
	}{
		{
			name: "english contract",
			text: "The tenant shall pay rent on the first day of each month.",
			want: LocaleEnglish,
		},
		{
			name: "vietnamese with diacritics",
			text: "Hợp đồng này có hiệu lực kể từ ngày ký.",
			want: LocaleVietnamese,
		},
		{
			name: "single diacritic character",
			text: "so giay phep đ 123",
			want: LocaleVietnamese,
		},
		{
			name: "empty text",
			text: "",
			want: LocaleEnglish,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detector.LanguageHint(tt.text))
		})
	}
}

func TestLanguageInstruction(t *testing.T) {
	assert.Contains(t, languageInstruction(LocaleVietnamese), "Vietnamese")
	assert.Contains(t, languageInstruction(LocaleEnglish), "English")
}

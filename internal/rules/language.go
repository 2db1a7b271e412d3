package rules

import "strings"

// Locale identifies the language the model should respond in.
type Locale string

const (
	LocaleEnglish    Locale = "en"
	LocaleVietnamese Locale = "vi"
)

// LanguageDetector hints the response language for a document.
// It is a best-effort heuristic, not a validated language classifier, and is
// kept behind an interface so it can be swapped for a real one.
type LanguageDetector interface {
	LanguageHint(text string) Locale
}

// VietnameseHeuristic detects Vietnamese by counting common function words
// and checking for diacritic characters from the Vietnamese alphabet.
type VietnameseHeuristic struct{}

// wordThreshold is the number of matched function words beyond which the
// text counts as Vietnamese even without diacritics.
const wordThreshold = 3

var vietnameseWords = []string{
	"và", "của", "là", "có", "được", "cho", "từ", "trong", "với", "các",
	"này", "đó", "để", "những", "một", "về", "theo", "như", "đã", "sẽ",
	"tại", "do", "khi", "mà", "nếu", "hoặc", "nhưng", "vì", "bởi", "thì",
	"ở", "trên", "dưới", "giữa", "sau", "trước", "ngoài",
}

var vietnameseChars = []rune{
	'ă', 'â', 'đ', 'ê', 'ô', 'ơ', 'ư', 'á', 'à', 'ả', 'ã', 'ạ',
	'é', 'è', 'ẻ', 'ẽ', 'ẹ', 'í', 'ì', 'ỉ', 'ĩ', 'ị',
	'ó', 'ò', 'ỏ', 'õ', 'ọ', 'ú', 'ù', 'ủ', 'ũ', 'ụ',
	'ý', 'ỳ', 'ỷ', 'ỹ', 'ỵ',
}

// LanguageHint implements LanguageDetector.
func (VietnameseHeuristic) LanguageHint(text string) Locale {
	lower := strings.ToLower(text)

	wordCount := 0
	for _, word := range vietnameseWords {
		if strings.Contains(lower, " "+word+" ") ||
			strings.HasPrefix(lower, word+" ") ||
			strings.HasSuffix(lower, " "+word) {
			wordCount++
		}
	}
	if wordCount > wordThreshold {
		return LocaleVietnamese
	}

	for _, char := range vietnameseChars {
		if strings.ContainsRune(lower, char) {
			return LocaleVietnamese
		}
	}

	return LocaleEnglish
}

// languageInstruction returns the prompt fragment for a locale.
func languageInstruction(locale Locale) string {
	if locale == LocaleVietnamese {
		return "IMPORTANT: Please respond in Vietnamese language (tiếng Việt). The document is in Vietnamese, so all rules and explanations must be in Vietnamese."
	}
	return "Please respond in English."
}

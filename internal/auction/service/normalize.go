package service

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Короткие служебные слова, которые не несут смысла при сравнении.
var stopWords = map[string]struct{}{
	"на": {}, "для": {}, "от": {}, "до": {}, "с": {}, "у": {}, "в": {}, "о": {},
	"по": {}, "из": {}, "за": {}, "и": {}, "или": {}, "не": {}, "да": {}, "но": {},
	"же": {}, "бы": {}, "то": {}, "вот": {}, "а": {}, "как": {}, "так": {},
}

// всё, что не буква кириллицы/латиницы и не цифра, становится разделителем.
// ё добавлена явно: диапазон а-я её не включает, и с классом [^а-яa-z0-9]
// «ёлка» распалась бы на «лка».
var nonWord = regexp.MustCompile(`[^а-яёa-z0-9]+`)

func isStopWord(w string) bool {
	_, ok := stopWords[w]
	return ok
}

// splitWords: NFC, нижний регистр, мусор → пробел, разбиение.
func splitWords(text string) []string {
	s := strings.ToLower(norm.NFC.String(text))
	return strings.Fields(nonWord.ReplaceAllString(s, " "))
}

// significantWords returns the tokens used for comparison. Tokens of one rune are
// dropped unless nothing else survives, in which case only stop words are removed.
func significantWords(text string) []string {
	all := splitWords(text)

	significant := make([]string, 0, len(all))
	for _, w := range all {
		if utf8.RuneCountInString(w) > 1 && !isStopWord(w) {
			significant = append(significant, w)
		}
	}
	if len(significant) > 0 {
		return significant
	}

	relaxed := significant[:0]
	for _, w := range all {
		if !isStopWord(w) {
			relaxed = append(relaxed, w)
		}
	}
	return relaxed
}

// Normalize exposes the tokenizer for diagnostics and tooling.
func Normalize(text string) []string {
	return significantWords(text)
}

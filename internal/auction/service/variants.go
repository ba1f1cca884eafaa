package service

import (
	"strings"
	"unicode"
)

// Транслитерация кириллица → латиница, побуквенно, без учёта контекста.
var rusToLat = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "yo", 'ж': "zh",
	'з': "z", 'и': "i", 'й': "j", 'к': "k", 'л': "l", 'м': "m", 'н': "n", 'о': "o",
	'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u", 'ф': "f", 'х': "h", 'ц': "ts",
	'ч': "ch", 'ш': "sh", 'щ': "shh", 'ъ': "``", 'ы': "y", 'ь': "`", 'э': "e`", 'ю': "yu",
	'я': "ya",
}

// Физическое соответствие клавиш QWERTY → ЙЦУКЕН.
var latToCyrKeys = map[rune]rune{
	'q': 'й', 'w': 'ц', 'e': 'у', 'r': 'к', 't': 'е', 'y': 'н', 'u': 'г', 'i': 'ш',
	'o': 'щ', 'p': 'з', '[': 'х', ']': 'ъ',
	'a': 'ф', 's': 'ы', 'd': 'в', 'f': 'а', 'g': 'п', 'h': 'р', 'j': 'о', 'k': 'л',
	'l': 'д', ';': 'ж', '\'': 'э',
	'z': 'я', 'x': 'ч', 'c': 'с', 'v': 'м', 'b': 'и', 'n': 'т', 'm': 'ь', ',': 'б',
	'.': 'ю', '/': '.', '`': 'ё',
}

// ЙЦУКЕН → QWERTY, строится один раз из прямой таблицы.
var cyrToLatKeys = func() map[rune]rune {
	m := make(map[rune]rune, len(latToCyrKeys))
	for lat, cyr := range latToCyrKeys {
		m[cyr] = lat
	}
	return m
}()

func transliterate(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if lat, ok := rusToLat[r]; ok {
			b.WriteString(lat)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// convertLayout переводит текст, набранный не в той раскладке, в обе стороны.
// Регистр исходного символа сохраняется.
func convertLayout(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		lower := unicode.ToLower(r)
		conv, ok := latToCyrKeys[lower]
		if !ok {
			conv, ok = cyrToLatKeys[lower]
		}
		if !ok {
			b.WriteRune(r)
			continue
		}
		if r != lower {
			conv = unicode.ToUpper(conv)
		}
		b.WriteRune(conv)
	}
	return b.String()
}

// variants: исходное слово, транслит и другая раскладка, без повторов, в этом порядке.
func variants(word string) []string {
	out := make([]string, 0, 3)
	for _, v := range [...]string{word, transliterate(word), convertLayout(word)} {
		dup := false
		for _, seen := range out {
			if seen == v {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, v)
		}
	}
	return out
}

// Variants exposes the expander for diagnostics and tooling.
func Variants(word string) []string {
	return variants(word)
}

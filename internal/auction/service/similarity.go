package service

import (
	"unicode/utf8"

	"github.com/hbollon/go-edlib"

	"auction-matcher/internal/auction/model"
)

// wordSimilarity: normalized Levenshtein similarity in [0..1], lengths in runes.
func wordSimilarity(a, b string) float64 {
	m := utf8.RuneCountInString(a)
	if mb := utf8.RuneCountInString(b); mb > m {
		m = mb
	}
	if m == 0 {
		return 0
	}
	d := edlib.LevenshteinDistance(a, b)
	return 1 - float64(d)/float64(m)
}

func wordsClose(a, b string) bool {
	return wordSimilarity(a, b) >= model.WordSimilarityThreshold
}

// variantsMatch: хоть один вариант одного слова близок хоть к одному варианту другого.
func variantsMatch(a, b []string) bool {
	for _, va := range a {
		for _, vb := range b {
			if wordsClose(va, vb) {
				return true
			}
		}
	}
	return false
}

func expandAll(words []string) [][]string {
	out := make([][]string, len(words))
	for i, w := range words {
		out[i] = variants(w)
	}
	return out
}

// countMatches считает слова сообщения, у которых нашёлся партнёр среди слов лота.
// Жадно: первое подходящее слово лота засчитывается, дальше не ищем. Слова лота
// не вычёркиваются, повтор в сообщении может сработать на то же слово.
func countMatches(msg, lot [][]string) int {
	matches := 0
	for _, mv := range msg {
		for _, lv := range lot {
			if variantsMatch(mv, lv) {
				matches++
				break
			}
		}
	}
	return matches
}

// dice — коэффициент Сёренсена–Дайса, ограниченный сверху единицей.
func dice(matches, msgLen, lotLen int) float64 {
	total := msgLen + lotLen
	if total == 0 {
		return 0
	}
	s := 2 * float64(matches) / float64(total)
	if s > 1 {
		return 1
	}
	return s
}

// Similarity scores two token lists the way the matcher does, without the
// containment shortcut.
func Similarity(msgWords, lotWords []string) float64 {
	return dice(countMatches(expandAll(msgWords), expandAll(lotWords)), len(msgWords), len(lotWords))
}

package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWordSimilarity(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 1.0, wordSimilarity("кино", "кино"), 1e-9)
	assert.InDelta(t, 0.75, wordSimilarity("кино", "кено"), 1e-9)
	assert.InDelta(t, 0.6, wordSimilarity("лот", "лотов"), 1e-9)
	assert.InDelta(t, 0.0, wordSimilarity("", ""), 1e-9)
	assert.InDelta(t, 0.0, wordSimilarity("ab", "cd"), 1e-9)
}

func TestWordsClose(t *testing.T) {
	t.Parallel()

	assert.True(t, wordsClose("кино", "кено"))
	assert.True(t, wordsClose("стрим", "стриме"))
	assert.False(t, wordsClose("лот", "лотов"))
	assert.False(t, wordsClose("кот", "собака"))
}

func TestVariantsMatch_CrossProduct(t *testing.T) {
	t.Parallel()

	// латиница в русской раскладке против кириллицы
	assert.True(t, variantsMatch(variants("cbuvf"), variants("сигма")))
	// транслит
	assert.True(t, variantsMatch(variants("дота"), variants("dota")))
	assert.False(t, variantsMatch(variants("го"), variants("cs")))
}

func TestSimilarity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		msg      []string
		lot      []string
		expected float64
	}{
		{name: "identical", msg: []string{"поход", "кино"}, lot: []string{"поход", "кино"}, expected: 1},
		{name: "typo", msg: []string{"поход", "кено"}, lot: []string{"поход", "кино"}, expected: 1},
		{name: "half", msg: []string{"го", "дота"}, lot: []string{"поиграть", "dota"}, expected: 0.5},
		{name: "disjoint", msg: []string{"абсолютно"}, lot: []string{"сигма"}, expected: 0},
		{name: "uneven", msg: []string{"заказ"}, lot: []string{"заказ", "пиццы", "стрим"}, expected: 0.5},
		// повторы в сообщении бьют в одно и то же слово лота, результат не больше 1
		{name: "capped", msg: []string{"кот", "кот", "кот"}, lot: []string{"кот"}, expected: 1},
		{name: "empty", msg: nil, lot: nil, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.expected, Similarity(tt.msg, tt.lot), 1e-9)
		})
	}
}

func TestCountMatches_GreedyFirstCandidate(t *testing.T) {
	t.Parallel()

	// оба слова сообщения находят одно и то же слово лота: жадный подсчёт, не паросочетание
	msg := expandAll([]string{"кино", "кина"})
	lot := expandAll([]string{"кино", "пицца"})
	assert.Equal(t, 2, countMatches(msg, lot))
}

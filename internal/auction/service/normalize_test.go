package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignificantWords(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "empty", input: "", expected: []string{}},
		{name: "only punctuation", input: "!!! ... ???", expected: []string{}},
		{name: "lowercases and strips punctuation", input: "Привет, Мир!", expected: []string{"привет", "мир"}},
		{name: "drops stop words", input: "Спеть на стриме песню", expected: []string{"спеть", "стриме", "песню"}},
		{name: "only stop words", input: "на для от и", expected: []string{}},
		{name: "drops short tokens when others survive", input: "Dota 2", expected: []string{"dota"}},
		{name: "keeps short tokens when nothing else survives", input: "в я", expected: []string{"я"}},
		{name: "single digit", input: "2", expected: []string{"2"}},
		{name: "mixed scripts", input: "CS:GO турнир", expected: []string{"cs", "go", "турнир"}},
		{name: "yo is a letter", input: "Ёлка-палка", expected: []string{"ёлка", "палка"}},
		{name: "decomposed short i", input: "Мои\u0306 лот", expected: []string{"мой", "лот"}},
		{name: "repeated words are kept", input: "кот кот", expected: []string{"кот", "кот"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, significantWords(tt.input))
		})
	}
}

func TestNormalize_MatchesInternalTokenizer(t *testing.T) {
	t.Parallel()
	assert.Equal(t, significantWords("Поход в кино"), Normalize("Поход в кино"))
}

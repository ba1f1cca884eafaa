package fileio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"auction-matcher/internal/utils"
)

// Варианты через "|": сначала точное совпадение заголовка, потом нормализованное.
const (
	DefaultContentColumns = "Лот|Название|Наименование|Позиция|Игра|lot|name|content|title"
	DefaultAmountColumns  = "Сумма|Стоимость|Ставка|amount|sum|total"
)

var ErrNoContentColumn = errors.New("no lot content column")

type LotMapping struct {
	ContentKey string
	AmountKey  string
	HeaderRow  int
}

func (m LotMapping) withDefaults() LotMapping {
	if strings.TrimSpace(m.ContentKey) == "" {
		m.ContentKey = DefaultContentColumns
	}
	if strings.TrimSpace(m.AmountKey) == "" {
		m.AmountKey = DefaultAmountColumns
	}
	if m.HeaderRow < 1 {
		m.HeaderRow = 1
	}
	return m
}

// LotRow — строка импорта; Amount == nil, если сумма пустая или не разобралась.
type LotRow struct {
	Content string
	Amount  *float64
}

// ReadLots читает список лотов из таблицы (.csv/.tsv/.xls/.xlsx) или из .txt,
// где каждая непустая строка — отдельный лот без суммы.
func ReadLots(r io.Reader, filename string, m LotMapping) ([]LotRow, error) {
	if strings.EqualFold(filepath.Ext(filename), ".txt") {
		return readLines(r)
	}
	m = m.withDefaults()
	recs, err := ReadRecords(r, filename, m.HeaderRow)
	if err != nil {
		return nil, err
	}
	return LotsFromRecords(recs, m)
}

func LotsFromRecords(recs []map[string]string, m LotMapping) ([]LotRow, error) {
	if len(recs) == 0 {
		return nil, nil
	}
	m = m.withDefaults()

	contentKey := resolveKey(recs[0], m.ContentKey)
	if contentKey == "" {
		return nil, fmt.Errorf("%w: want %q, have %q", ErrNoContentColumn, m.ContentKey, headers(recs[0]))
	}
	amountKey := resolveKey(recs[0], m.AmountKey)
	if amountKey == contentKey {
		amountKey = ""
	}

	rows := make([]LotRow, 0, len(recs))
	for _, rec := range recs {
		content := strings.TrimSpace(rec[contentKey])
		// повтор шапки посреди выгрузки
		if normHeaderKey(content) == normHeaderKey(contentKey) {
			continue
		}
		var amount *float64
		if amountKey != "" {
			if v, ok := utils.ParseAmount(rec[amountKey]); ok {
				amount = &v
			}
		}
		if content == "" && amount == nil {
			continue
		}
		rows = append(rows, LotRow{Content: content, Amount: amount})
	}
	return rows, nil
}

func readLines(r io.Reader) ([]LotRow, error) {
	br := bufio.NewReaderSize(r, sniffSize)
	peek, _ := br.Peek(sniffSize)

	var rows []LotRow
	sc := bufio.NewScanner(decoder(br, detectCharset(peek)))
	for sc.Scan() {
		line := strings.TrimSpace(strings.TrimPrefix(sc.Text(), "\ufeff"))
		if line != "" {
			rows = append(rows, LotRow{Content: line})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}

var rxHeaderJunk = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// normHeaderKey: нижний регистр, ё→е, всё кроме букв и цифр схлопывается в пробел.
func normHeaderKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "ё", "е")
	s = rxHeaderJunk.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// resolveKey ищет реальный заголовок записи по желаемому имени с альтернативами
// через "|". Порядок: точное совпадение, нормализованное, затем самое длинное
// вхождение ("Сумма, руб." находится по "Сумма").
func resolveKey(rec map[string]string, want string) string {
	alts := strings.Split(want, "|")
	for i := range alts {
		alts[i] = strings.TrimSpace(alts[i])
	}
	keys := headers(rec)

	for _, a := range alts {
		if _, ok := rec[a]; ok && a != "" {
			return a
		}
	}
	for _, a := range alts {
		na := normHeaderKey(a)
		if na == "" {
			continue
		}
		for _, k := range keys {
			if normHeaderKey(k) == na {
				return k
			}
		}
	}

	bestKey, bestScore := "", 0
	for _, a := range alts {
		na := normHeaderKey(a)
		if na == "" {
			continue
		}
		for _, k := range keys {
			if strings.Contains(normHeaderKey(k), na) && len(na) > bestScore {
				bestKey, bestScore = k, len(na)
			}
		}
	}
	return bestKey
}

// headers возвращает ключи записи в стабильном порядке.
func headers(rec map[string]string) []string {
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

package fileio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	excelize "github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

func amounts(rows []LotRow) []any {
	out := make([]any, len(rows))
	for i, r := range rows {
		if r.Amount == nil {
			out[i] = nil
			continue
		}
		out[i] = *r.Amount
	}
	return out
}

func contents(rows []LotRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Content
	}
	return out
}

func TestReadLots_CSVSemicolon(t *testing.T) {
	t.Parallel()

	src := "Лот;Сумма (руб.)\n" +
		"Сигма;1 000\n" +
		"Поход в кино;500,50\n" +
		";\n" +
		"Без суммы;\n" +
		";25\n"
	rows, err := ReadLots(strings.NewReader(src), "lots.csv", LotMapping{})
	require.NoError(t, err)

	assert.Equal(t, []string{"Сигма", "Поход в кино", "Без суммы", ""}, contents(rows))
	assert.Equal(t, []any{1000.0, 500.5, nil, 25.0}, amounts(rows))
}

func TestReadLots_CSVWindows1251(t *testing.T) {
	t.Parallel()

	src := "Название,Стоимость\n" +
		"Посмотреть фильм про космос вместе со зрителями,1500\n" +
		"Пройти старую игру на самой сложной сложности,2300\n" +
		"Приготовить ужин по рецепту из комментариев,700\n" +
		"Прочитать вслух главу любимой книги,350\n" +
		"Нарисовать портрет победителя прошлого аукциона,900\n"
	enc, err := charmap.Windows1251.NewEncoder().String(src)
	require.NoError(t, err)

	rows, err := ReadLots(strings.NewReader(enc), "export.CSV", LotMapping{})
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, "Посмотреть фильм про космос вместе со зрителями", rows[0].Content)
	assert.InDelta(t, 350.0, *rows[3].Amount, 1e-9)
}

func TestReadLots_XLSXWithTitleRow(t *testing.T) {
	t.Parallel()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Аукцион 14.03"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"№", "Игра", "Ставка"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{1, "Dota 2", 300}))
	require.NoError(t, f.SetSheetRow(sheet, "A4", &[]any{2, "Сигма", "1 200,5"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	rows, err := ReadLots(bytes.NewReader(buf.Bytes()), "auction.xlsx", LotMapping{HeaderRow: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"Dota 2", "Сигма"}, contents(rows))
	assert.Equal(t, []any{300.0, 1200.5}, amounts(rows))
}

func TestReadLots_ExplicitColumns(t *testing.T) {
	t.Parallel()

	src := "what,how much\nСигма,10\n"
	rows, err := ReadLots(strings.NewReader(src), "x.csv", LotMapping{ContentKey: "what", AmountKey: "how much"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Сигма", rows[0].Content)
	assert.InDelta(t, 10.0, *rows[0].Amount, 1e-9)

	_, err = ReadLots(strings.NewReader(src), "x.csv", LotMapping{})
	assert.ErrorIs(t, err, ErrNoContentColumn)
}

func TestReadLots_TXT(t *testing.T) {
	t.Parallel()

	rows, err := ReadLots(strings.NewReader("\ufeffСигма\n\n  Поход в кино  \r\n"), "lots.txt", LotMapping{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Сигма", "Поход в кино"}, contents(rows))
	assert.Nil(t, rows[0].Amount)
}

func TestReadLots_Unsupported(t *testing.T) {
	t.Parallel()

	_, err := ReadLots(strings.NewReader("x"), "lots.pdf", LotMapping{})
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestReadLots_SkipsRepeatedHeader(t *testing.T) {
	t.Parallel()

	src := "Лот,Сумма\nСигма,1\nЛот,Сумма\nКино,2\n"
	rows, err := ReadLots(strings.NewReader(src), "x.csv", LotMapping{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Сигма", "Кино"}, contents(rows))
}

func TestResolveKey(t *testing.T) {
	t.Parallel()

	rec := map[string]string{"Наименование лота": "", "Сумма (руб.)": "", "Ёмкость": ""}
	assert.Equal(t, "Наименование лота", resolveKey(rec, "Лот|Наименование"))
	assert.Equal(t, "Сумма (руб.)", resolveKey(rec, "сумма руб"))
	assert.Equal(t, "Ёмкость", resolveKey(rec, "емкость"))
	assert.Empty(t, resolveKey(rec, "amount"))
}

func TestPickHeader(t *testing.T) {
	t.Parallel()

	h := pickHeader([][]string{{"Лот", "", "Лот", " Сумма "}}, 1)
	assert.Equal(t, []string{"Лот", "Column 2", "Лот (2)", "Сумма"}, h)
}

func TestDetectComma(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ';', detectComma([]byte("a;b;c\n1,5;2;3")))
	assert.Equal(t, '\t', detectComma([]byte("a\tb")))
	assert.Equal(t, ',', detectComma([]byte("a,b;c,d")))
	assert.Equal(t, ',', detectComma(nil))
}

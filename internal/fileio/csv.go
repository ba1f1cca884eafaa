package fileio

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

const sniffSize = 4096

// readCSV определяет кодировку (UTF-8, Windows-1251, KOI8-R) и разделитель:
// выгрузки из русского Excel обычно через ';'.
func readCSV(r io.Reader) ([][]string, error) {
	br := bufio.NewReaderSize(r, sniffSize)
	peek, _ := br.Peek(sniffSize)

	dec := decoder(br, detectCharset(peek))
	cr := csv.NewReader(dec)
	cr.Comma = detectComma(peek)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var rows [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, rec)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	return rows, nil
}

func detectCharset(peek []byte) string {
	if len(peek) == 0 {
		return "utf-8"
	}
	det, err := chardet.NewTextDetector().DetectBest(peek)
	if err != nil || det == nil {
		return "utf-8"
	}
	return strings.ToLower(det.Charset)
}

func decoder(r io.Reader, charset string) io.Reader {
	switch charset {
	case "windows-1251", "cp1251":
		return transform.NewReader(r, charmap.Windows1251.NewDecoder())
	case "koi8-r":
		return transform.NewReader(r, charmap.KOI8R.NewDecoder())
	default:
		return r
	}
}

// detectComma смотрит только на первую строку: побеждает самый частый из ; \t ,
func detectComma(peek []byte) rune {
	line := peek
	if i := bytes.IndexByte(peek, '\n'); i >= 0 {
		line = peek[:i]
	}
	best, bestN := ',', bytes.Count(line, []byte{','})
	for _, c := range []rune{';', '\t'} {
		if n := bytes.Count(line, []byte(string(c))); n > bestN {
			best, bestN = c, n
		}
	}
	return best
}

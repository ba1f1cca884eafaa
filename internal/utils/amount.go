package utils

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	rxKeepNums = regexp.MustCompile(`[^\d.\-]`)
	spaces     = strings.NewReplacer(" ", "", "\u00a0", "", "\u2009", "", "\u202f", "", "\t", "")
)

// ParseAmount парсит суммы как их пишут люди и выгрузки: "1 234,50", "500 ₽",
// "-30 руб.", "(100)" как отрицательное, "1.234,5". ok == false для пустых и мусорных строк.
func ParseAmount(s string) (float64, bool) {
	s = spaces.Replace(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	}

	// последний из '.' и ',' отделяет дробную часть, остальные разделяют разряды
	if i := strings.LastIndexAny(s, ".,"); i >= 0 {
		intPart := strings.NewReplacer(".", "", ",", "").Replace(s[:i])
		s = intPart + "." + s[i+1:]
	}
	s = rxKeepNums.ReplaceAllString(s, "")
	if s == "" || s == "-" || s == "." || s == "-." {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if neg {
		f = -f
	}
	return f, true
}

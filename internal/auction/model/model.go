package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

const (
	SimilarityThreshold      = 0.33 // ниже этого лучший кандидат не считается совпадением
	AutomaticAssignThreshold = 0.95 // с этого порога донат добавляется к лоту без оператора
	WordSimilarityThreshold  = 0.7  // близость отдельных слов (1 - lev/maxLen)
	GroupThresholdBonus      = 0.2  // группировка строже одиночного сопоставления
	DefaultGroupThreshold    = SimilarityThreshold + GroupThresholdBonus
	MinGroupContentLength    = 2 // лоты с содержимым не длиннее этого не группируются
)

// Options задаёт пороги движка. Нулевое значение не годится, используйте DefaultOptions.
type Options struct {
	MatchThreshold      float64 `json:"matchThreshold"`
	AutoAssignThreshold float64 `json:"autoAssignThreshold"`
	GroupThreshold      float64 `json:"groupThreshold"`
}

func DefaultOptions() Options {
	return Options{
		MatchThreshold:      SimilarityThreshold,
		AutoAssignThreshold: AutomaticAssignThreshold,
		GroupThreshold:      DefaultGroupThreshold,
	}
}

// Lot — позиция аукциона. Снимки лотов передаются в движок по значению.
type Lot struct {
	ID            int      `json:"id"`
	Content       string   `json:"content"`
	Amount        *float64 `json:"amount"`
	IsPlaceholder bool     `json:"isPlaceholder"`
}

// NewLot builds a lot with the placeholder flag derived from content and amount.
func NewLot(id int, content string, amount *float64) Lot {
	return Lot{
		ID:            id,
		Content:       content,
		Amount:        amount,
		IsPlaceholder: IsPlaceholder(content, amount),
	}
}

// IsPlaceholder: нет ни текста, ни суммы.
func IsPlaceholder(content string, amount *float64) bool {
	return strings.TrimSpace(content) == "" && (amount == nil || *amount == 0)
}

// AmountValue returns the amount treating nil as zero.
func (l Lot) AmountValue() float64 {
	if l.Amount == nil {
		return 0
	}
	return *l.Amount
}

// Amount is a small helper for building optional amounts in literals.
func Amount(v float64) *float64 { return &v }

// MatchResult — результат сопоставления. Similarity == 0 всегда идёт вместе с BestMatch == nil.
type MatchResult struct {
	BestMatch  *Lot    `json:"bestMatch"`
	Similarity float64 `json:"similarity"`
}

// NoMatch is the sentinel result.
func NoMatch() MatchResult { return MatchResult{} }

func (m MatchResult) Found() bool { return m.BestMatch != nil }

// Group — найденная группа похожих лотов; Members включает представителя первым.
type Group struct {
	ID      int   `json:"id"`
	Members []int `json:"members"`
}

// Groups keeps discovery order. It encodes as a JSON object keyed by representative id.
type Groups []Group

// Lookup returns the members of the group represented by id.
func (g Groups) Lookup(id int) ([]int, bool) {
	for _, grp := range g {
		if grp.ID == id {
			return grp.Members, true
		}
	}
	return nil, false
}

// GroupOf returns the representative of the group containing lot id.
func (g Groups) GroupOf(id int) (int, bool) {
	for _, grp := range g {
		for _, m := range grp.Members {
			if m == id {
				return grp.ID, true
			}
		}
	}
	return 0, false
}

// ToMap drops ordering; handy for comparisons in tests and callers that don't care.
func (g Groups) ToMap() map[int][]int {
	out := make(map[int][]int, len(g))
	for _, grp := range g {
		out[grp.ID] = grp.Members
	}
	return out
}

func (g Groups) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, grp := range g {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(strconv.Itoa(grp.ID)))
		buf.WriteByte(':')
		members := grp.Members
		if members == nil {
			members = []int{}
		}
		b, err := json.Marshal(members)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Platform — источник доната.
type Platform string

const (
	PlatformDonationAlerts Platform = "donationalerts"
	PlatformTwitch         Platform = "twitch"
	PlatformDonatePay      Platform = "donatepay"
	PlatformCustom         Platform = "custom"
)

type Donation struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Message   string    `json:"message"`
	Amount    float64   `json:"amount"`
	Currency  string    `json:"currency"`
	Platform  Platform  `json:"platform"`
	CreatedAt time.Time `json:"createdAt"`
}

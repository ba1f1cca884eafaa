package service

import (
	"strings"
	"unicode/utf8"

	"auction-matcher/internal/auction/model"
)

type matchFunc func(message string, lots []model.Lot) model.MatchResult

// GroupSimilarLots объединяет похожие лоты жадной single-link кластеризацией.
// Ключ группы — первый по порядку лот, члены идут в порядке обнаружения.
// Лот попадает максимум в одну группу. O(n²), вызывать вне горячего пути.
func GroupSimilarLots(lots []model.Lot, threshold float64) model.Groups {
	return GroupSimilarLotsWith(lots, threshold, model.DefaultOptions())
}

// GroupSimilarLotsWith uses opt for the pairwise matcher calls.
func GroupSimilarLotsWith(lots []model.Lot, threshold float64, opt model.Options) model.Groups {
	return groupSimilarLots(lots, threshold, func(message string, candidates []model.Lot) model.MatchResult {
		return Match(message, candidates, opt)
	})
}

func groupable(l model.Lot) bool {
	return !l.IsPlaceholder && utf8.RuneCountInString(strings.TrimSpace(l.Content)) > model.MinGroupContentLength
}

func groupSimilarLots(lots []model.Lot, threshold float64, match matchFunc) model.Groups {
	filled := make([]model.Lot, 0, len(lots))
	for _, l := range lots {
		if groupable(l) {
			filled = append(filled, l)
		}
	}

	groups := model.Groups{}
	if len(filled) < 2 {
		return groups
	}

	processed := make(map[int]struct{}, len(filled))
	isProcessed := func(id int) bool {
		_, ok := processed[id]
		return ok
	}

	for _, current := range filled {
		if isProcessed(current.ID) {
			continue
		}

		members := []int{current.ID}
		for _, other := range filled {
			if other.ID == current.ID || isProcessed(other.ID) {
				continue
			}
			if res := match(current.Content, []model.Lot{other}); res.Similarity >= threshold {
				members = append(members, other.ID)
			}
		}

		if len(members) > 1 {
			groups = append(groups, model.Group{ID: current.ID, Members: members})
			for _, id := range members {
				processed[id] = struct{}{}
			}
		}
	}

	return groups
}

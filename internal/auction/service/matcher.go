package service

import (
	"strings"

	"auction-matcher/internal/auction/model"
)

// FindBestLotMatch находит лот, к которому скорее всего относится сообщение доната,
// с порогами по умолчанию.
func FindBestLotMatch(message string, lots []model.Lot) model.MatchResult {
	return Match(message, lots, model.DefaultOptions())
}

// Match сравнивает сообщение со всеми заполненными лотами и возвращает лучший,
// если его схожесть не ниже opt.MatchThreshold. Иначе (nil, 0).
func Match(message string, lots []model.Lot, opt model.Options) model.MatchResult {
	if message == "" || len(lots) == 0 {
		return model.NoMatch()
	}

	msgWords := significantWords(message)
	if len(msgWords) == 0 {
		return model.NoMatch()
	}
	msgVariants := expandAll(msgWords)
	lowerMsg := strings.ToLower(strings.TrimSpace(message))

	best := -1
	highest := 0.0

	for i := range lots {
		lot := lots[i]
		if lot.IsPlaceholder {
			continue
		}
		lotWords := significantWords(lot.Content)
		if len(lotWords) == 0 {
			continue
		}

		// прямое вхождение считается идеальным, первое найденное не перетираем
		lowerLot := strings.ToLower(strings.TrimSpace(lot.Content))
		if strings.Contains(lowerLot, lowerMsg) || strings.Contains(lowerMsg, lowerLot) {
			if highest < 1.0 {
				highest = 1.0
				best = i
			}
			continue
		}

		s := dice(countMatches(msgVariants, expandAll(lotWords)), len(msgWords), len(lotWords))
		if s > highest {
			highest = s
			best = i
		}
	}

	if best < 0 || highest < opt.MatchThreshold {
		return model.NoMatch()
	}
	found := lots[best]
	return model.MatchResult{BestMatch: &found, Similarity: highest}
}

// ShouldAutoAssign reports whether a match is confident enough to skip manual review.
func ShouldAutoAssign(res model.MatchResult, opt model.Options) bool {
	return res.Found() && res.Similarity >= opt.AutoAssignThreshold
}

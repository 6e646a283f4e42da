package podcast

import (
	"math/rand"
	"sort"

	"github.com/lincolndiasramos-coder/linkards-api/internal/domain"
)

// statusPriority weights term selection toward the cards the learner
// knows least. Jitter keeps repeated episodes from always covering the
// same cards.
var statusPriority = map[domain.CardStatus]float64{
	domain.CardStatusNew:    4,
	domain.CardStatusWeak:   3,
	domain.CardStatusFair:   2,
	domain.CardStatusStrong: 1,
}

// selectTerms picks up to n cards for an episode, scored by mastery
// priority plus random jitter in [0,1). Cards with equal status are
// shuffled relative to each other; a weaker card always outranks a card
// two levels stronger.
func selectTerms(cards []*domain.Card, n int, rng *rand.Rand) []*domain.Card {
	if n <= 0 || len(cards) == 0 {
		return nil
	}

	type scored struct {
		card  *domain.Card
		score float64
	}
	ranked := make([]scored, 0, len(cards))
	for _, c := range cards {
		ranked = append(ranked, scored{
			card:  c,
			score: statusPriority[c.Status] + rng.Float64(),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	if n > len(ranked) {
		n = len(ranked)
	}
	out := make([]*domain.Card, 0, n)
	for _, r := range ranked[:n] {
		out = append(out, r.card)
	}
	return out
}

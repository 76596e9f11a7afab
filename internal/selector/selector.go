// Package selector implements weakest-link question selection: given a
// learner's historical per-domain performance, it biases the chosen subset
// toward low-scoring domains and previously-missed questions. Pure functions
// only; no I/O and no randomness, so identical inputs always select the same
// questions (the attempt engine shuffles choices afterwards).
package selector

import (
	"math"
	"sort"

	"github.com/prepforge/certprep/internal/model"
)

// DomainStat summarizes a learner's history in one domain.
type DomainStat struct {
	Attempts int     `json:"attempts"`
	AvgScore float64 `json:"avg_score"`
}

// weightFloor keeps every domain selectable: even a consistently perfect
// domain retains a small share of the pool.
const weightFloor = 0.25

// Weight maps a domain's average score to a selection weight. Domains with no
// history get the neutral 1.0; lower averages get proportionally more weight.
// Monotonically decreasing in avg, never below weightFloor.
func Weight(stat DomainStat, passThreshold float64) float64 {
	if stat.Attempts == 0 || passThreshold <= 0 {
		return 1.0
	}
	w := 1 + (passThreshold-stat.AvgScore)/passThreshold
	if w < weightFloor {
		return weightFloor
	}
	return w
}

// Select picks up to count questions from the bank's set, allocating slots
// across domains proportionally to their weights and preferring
// previously-wrong questions within each domain. If the bank holds fewer than
// count questions the whole bank is returned in its own order.
func Select(questions []model.Question, stats map[string]DomainStat, wrongIDs map[int]bool, count int, passThreshold float64) []model.Question {
	if count <= 0 {
		return nil
	}
	if count >= len(questions) {
		out := make([]model.Question, len(questions))
		copy(out, questions)
		return out
	}

	// Partition per domain, previously-wrong first, bank order within each
	// partition.
	byDomain := make(map[string][]model.Question)
	var domains []string
	seenDomain := make(map[string]bool)
	for _, q := range questions {
		if !seenDomain[q.Domain] {
			seenDomain[q.Domain] = true
			domains = append(domains, q.Domain)
		}
	}
	for _, q := range questions {
		if wrongIDs[q.ID] {
			byDomain[q.Domain] = append(byDomain[q.Domain], q)
		}
	}
	for _, q := range questions {
		if !wrongIDs[q.ID] {
			byDomain[q.Domain] = append(byDomain[q.Domain], q)
		}
	}

	weights := make(map[string]float64, len(domains))
	var sum float64
	for _, d := range domains {
		weights[d] = Weight(stats[d], passThreshold)
		sum += weights[d]
	}

	// Deterministic priority: heavier domains first, names break ties.
	sort.Slice(domains, func(i, j int) bool {
		if weights[domains[i]] != weights[domains[j]] {
			return weights[domains[i]] > weights[domains[j]]
		}
		return domains[i] < domains[j]
	})

	// Largest-remainder quota allocation.
	quotas := make(map[string]int, len(domains))
	remainders := make(map[string]float64, len(domains))
	allocated := 0
	for _, d := range domains {
		exact := weights[d] / sum * float64(count)
		quotas[d] = int(math.Floor(exact))
		remainders[d] = exact - math.Floor(exact)
		allocated += quotas[d]
	}
	rest := append([]string(nil), domains...)
	sort.SliceStable(rest, func(i, j int) bool { return remainders[rest[i]] > remainders[rest[j]] })
	for _, d := range rest {
		if allocated >= count {
			break
		}
		quotas[d]++
		allocated++
	}

	taken := make(map[string]int, len(domains))
	var out []model.Question
	for _, d := range domains {
		n := quotas[d]
		if n > len(byDomain[d]) {
			n = len(byDomain[d])
		}
		out = append(out, byDomain[d][:n]...)
		taken[d] = n
	}

	// Small domains may not fill their quota; hand the leftover slots to the
	// remaining domains in priority order, round-robin.
	for len(out) < count {
		progressed := false
		for _, d := range domains {
			if len(out) >= count {
				break
			}
			if taken[d] < len(byDomain[d]) {
				out = append(out, byDomain[d][taken[d]])
				taken[d]++
				progressed = true
			}
		}
		if !progressed {
			break
		}
	}
	return out
}

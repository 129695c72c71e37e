// Package aggregate computes population-weighted deprivation scores and
// decile ranks. It is the shared numeric engine for both aggregation levels:
// the same implementation runs over practice-keyed and PCN-keyed rows.
package aggregate

import (
	"sort"

	"github.com/blackwellrd/practice-pcn-imd/internal/model"
)

// Result holds the ranked records for one aggregation level plus join
// diagnostics for population lost to unknown area codes.
type Result struct {
	Records            []model.ScoreRecord
	ExcludedRows       int
	ExcludedPopulation int64
}

// WeightedDeciles joins population rows against the area score table,
// computes each entity's population-weighted mean score and assigns decile
// ranks.
//
// Rows whose LSOA code has no score are excluded from both the numerator and
// the denominator; an entity whose population lies entirely in unknown areas
// receives no record at all. Entities with zero surviving population are
// likewise omitted. Empty input yields an empty result.
//
// Ranking is by weighted score descending, decile 1 first. Entities with
// exactly equal scores keep their first-appearance input order.
func WeightedDeciles(rows []model.AreaPopulation, scores map[string]float64) *Result {
	type totals struct {
		population   int64
		contribution float64
	}

	sums := make(map[string]*totals)
	order := make([]string, 0)
	res := &Result{}

	for _, row := range rows {
		score, ok := scores[row.AreaCode]
		if !ok {
			res.ExcludedRows++
			res.ExcludedPopulation += row.Population
			continue
		}

		t := sums[row.EntityCode]
		if t == nil {
			t = &totals{}
			sums[row.EntityCode] = t
			order = append(order, row.EntityCode)
		}
		t.population += row.Population
		t.contribution += score * float64(row.Population)
	}

	records := make([]model.ScoreRecord, 0, len(order))
	for _, code := range order {
		t := sums[code]
		if t.population == 0 {
			continue
		}
		records = append(records, model.ScoreRecord{
			EntityCode:    code,
			WeightedScore: t.contribution / float64(t.population),
		})
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].WeightedScore > records[j].WeightedScore
	})
	assignDeciles(records)

	res.Records = records
	return res
}

// assignDeciles splits the ranked list into 10 contiguous buckets, as equal
// in size as the remainder allows, with the larger buckets first.
func assignDeciles(records []model.ScoreRecord) {
	n := len(records)
	base, rem := n/10, n%10

	idx := 0
	for bucket := 0; bucket < 10; bucket++ {
		size := base
		if bucket < rem {
			size++
		}
		for i := 0; i < size; i++ {
			records[idx].Decile = bucket + 1
			idx++
		}
	}
}

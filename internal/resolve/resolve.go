// Package resolve folds practice-level populations up to their PCNs.
package resolve

import (
	"github.com/blackwellrd/practice-pcn-imd/internal/model"
)

// ToPCNs assigns every practice population row to exactly one PCN and sums
// rows sharing a (PCN, LSOA) pair into a single row. A practice with no
// active membership is assigned the unallocated sentinel; no population is
// dropped at this stage.
//
// Output order is deterministic: pairs appear in order of their first
// appearance in the input.
func ToPCNs(rows []model.AreaPopulation, memberships map[string]string) []model.AreaPopulation {
	type pair struct {
		pcn  string
		area string
	}

	totals := make(map[pair]int64, len(rows))
	order := make([]pair, 0, len(rows))

	for _, row := range rows {
		pcn, ok := memberships[row.EntityCode]
		if !ok || pcn == "" {
			pcn = model.UnallocatedPCN
		}

		k := pair{pcn: pcn, area: row.AreaCode}
		if _, seen := totals[k]; !seen {
			order = append(order, k)
		}
		totals[k] += row.Population
	}

	out := make([]model.AreaPopulation, 0, len(order))
	for _, k := range order {
		out = append(out, model.AreaPopulation{
			EntityCode: k.pcn,
			AreaCode:   k.area,
			Population: totals[k],
		})
	}
	return out
}

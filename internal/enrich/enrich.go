// Package enrich attaches directory metadata to ranked score records.
// Missing metadata is substituted with sentinel values; no record is ever
// dropped here, and the aggregator's rank order is preserved.
package enrich

import (
	"github.com/blackwellrd/practice-pcn-imd/internal/model"
)

// Practices builds the practice-level output rows. Name and postcode come
// from the practice directory, falling back to the Unknown label. The parent
// PCN code comes from the active membership map, falling back to the
// unallocated sentinel.
func Practices(records []model.ScoreRecord, directory map[string]model.Practice, memberships map[string]string) []model.RankedRow {
	rows := make([]model.RankedRow, 0, len(records))
	for _, rec := range records {
		row := model.RankedRow{
			Code:       rec.EntityCode,
			Name:       model.UnknownLabel,
			Postcode:   model.UnknownLabel,
			ParentCode: model.UnallocatedPCN,
			Score:      rec.WeightedScore,
			Decile:     rec.Decile,
		}
		if p, ok := directory[rec.EntityCode]; ok {
			row.Name = p.Name
			row.Postcode = p.Postcode
		}
		if pcn, ok := memberships[rec.EntityCode]; ok && pcn != "" {
			row.ParentCode = pcn
		}
		rows = append(rows, row)
	}
	return rows
}

// PCNs builds the PCN-level output rows. A PCN absent from the directory
// (the unallocated sentinel always is) gets Unknown labels and the UNK
// parent code.
func PCNs(records []model.ScoreRecord, directory map[string]model.PCN) []model.RankedRow {
	rows := make([]model.RankedRow, 0, len(records))
	for _, rec := range records {
		row := model.RankedRow{
			Code:       rec.EntityCode,
			Name:       model.UnknownLabel,
			Postcode:   model.UnknownLabel,
			ParentCode: model.UnknownCode,
			Score:      rec.WeightedScore,
			Decile:     rec.Decile,
		}
		if n, ok := directory[rec.EntityCode]; ok {
			row.Name = n.Name
			row.Postcode = n.Postcode
			row.ParentCode = n.ParentCode
		}
		rows = append(rows, row)
	}
	return rows
}

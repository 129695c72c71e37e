// Package model defines the in-memory tables the aggregation pipeline
// transforms. All values are plain rows; stages never mutate their inputs.
package model

// AreaScore is one LSOA with its deprivation score. The population column is
// the source file's denominator and is unused after loading.
type AreaScore struct {
	AreaCode   string
	Score      float64
	Population int64
}

// AreaPopulation is the atomic unit consumed by aggregation: a registered
// population count for one entity in one LSOA. EntityCode is a practice code
// at practice level and a PCN code after membership resolution.
type AreaPopulation struct {
	EntityCode string
	AreaCode   string
	Population int64
}

// Practice is one active GP practice from the ODS directory
type Practice struct {
	Code     string
	Name     string
	Postcode string
}

// PCN is one open primary care network from the ODS directory
type PCN struct {
	Code       string
	Name       string
	ParentCode string
	Postcode   string
}

// Membership is one active practice-to-PCN membership
type Membership struct {
	PracticeCode string
	PCNCode      string
}

// ScoreRecord is one ranked entity produced by the weighted aggregator
type ScoreRecord struct {
	EntityCode    string
	WeightedScore float64
	Decile        int
}

// RankedRow is one enriched output row, ready for the delimited writer
type RankedRow struct {
	Code       string
	Name       string
	Postcode   string
	ParentCode string
	Score      float64
	Decile     int
}

// Tables holds the five loaded input tables for one run
type Tables struct {
	Scores              []AreaScore
	PracticePopulations []AreaPopulation
	Practices           []Practice
	PCNs                []PCN
	Memberships         []Membership
}

// ScoreIndex returns deprivation scores keyed by LSOA code
func (t *Tables) ScoreIndex() map[string]float64 {
	idx := make(map[string]float64, len(t.Scores))
	for _, s := range t.Scores {
		idx[s.AreaCode] = s.Score
	}
	return idx
}

// PracticeIndex returns the practice directory keyed by practice code
func (t *Tables) PracticeIndex() map[string]Practice {
	idx := make(map[string]Practice, len(t.Practices))
	for _, p := range t.Practices {
		idx[p.Code] = p
	}
	return idx
}

// PCNIndex returns the PCN directory keyed by PCN code
func (t *Tables) PCNIndex() map[string]PCN {
	idx := make(map[string]PCN, len(t.PCNs))
	for _, n := range t.PCNs {
		idx[n.Code] = n
	}
	return idx
}

// MembershipIndex returns the active PCN code for each practice code.
// A practice with several surviving rows keeps the last one.
func (t *Tables) MembershipIndex() map[string]string {
	idx := make(map[string]string, len(t.Memberships))
	for _, m := range t.Memberships {
		idx[m.PracticeCode] = m.PCNCode
	}
	return idx
}

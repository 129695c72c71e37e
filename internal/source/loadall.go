package source

import (
	"context"
	"path/filepath"

	"github.com/blackwellrd/practice-pcn-imd/internal/model"
)

// LoadAll reads all five input tables. It fails fast on the first missing or
// unreadable table so a run never proceeds with a partial input set.
func (l *Loader) LoadAll(ctx context.Context, files Files) (*model.Tables, error) {
	tables := &model.Tables{}

	steps := []func() error{
		func() (err error) { tables.Scores, err = l.LoadAreaScores(files.Scores); return },
		func() (err error) { tables.PracticePopulations, err = l.LoadPracticePopulations(files.Populations); return },
		func() (err error) { tables.Practices, err = l.LoadPractices(files.Practices); return },
		func() (err error) { tables.PCNs, err = l.LoadPCNs(files.PCNs); return },
		func() (err error) { tables.Memberships, err = l.LoadMemberships(files.Memberships); return },
	}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := step(); err != nil {
			return nil, err
		}
	}

	return tables, nil
}

// Check is the validation outcome for one input table
type Check struct {
	Table string
	Path  string
	Err   error
}

// CheckFiles verifies each input table exists and carries its required
// columns, without loading any data rows
func (l *Loader) CheckFiles(files Files) []Check {
	specs := []struct {
		name     string
		label    string
		required []string
	}{
		{files.Scores, "LSOA scores", scoreColumns},
		{files.Populations, "practice populations", populationColumns},
		{files.Practices, "practice directory", practiceColumns},
		{files.PCNs, "PCN directory", pcnColumns},
		{files.Memberships, "PCN memberships", membershipColumns},
	}

	checks := make([]Check, 0, len(specs))
	for _, spec := range specs {
		t, err := l.openTable(spec.name, spec.label, spec.required)
		if err == nil {
			t.close()
		}
		checks = append(checks, Check{
			Table: spec.label,
			Path:  filepath.Join(l.dir, spec.name),
			Err:   err,
		})
	}
	return checks
}

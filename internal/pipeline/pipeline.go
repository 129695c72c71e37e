// Package pipeline wires one full aggregation run together:
// load -> resolve memberships -> aggregate both levels -> enrich -> emit.
// Every stage takes tables and returns new tables; nothing is mutated in
// place, so re-running on the same inputs is idempotent.
package pipeline

import (
	"context"
	"time"

	"github.com/blackwellrd/practice-pcn-imd/internal/aggregate"
	"github.com/blackwellrd/practice-pcn-imd/internal/enrich"
	"github.com/blackwellrd/practice-pcn-imd/internal/output"
	"github.com/blackwellrd/practice-pcn-imd/internal/resolve"
	"github.com/blackwellrd/practice-pcn-imd/internal/source"
	"github.com/blackwellrd/practice-pcn-imd/internal/util"
	"github.com/dustin/go-humanize"
	"github.com/sourcegraph/conc"
)

// Pipeline runs the whole aggregation batch
type Pipeline struct {
	loader         *source.Loader
	files          source.Files
	writer         *output.Writer
	practiceOutput string
	pcnOutput      string
}

// Config holds pipeline configuration
type Config struct {
	Loader         *source.Loader
	Files          source.Files
	Writer         *output.Writer
	PracticeOutput string
	PCNOutput      string
}

// New creates a new Pipeline
func New(cfg *Config) *Pipeline {
	return &Pipeline{
		loader:         cfg.Loader,
		files:          cfg.Files,
		writer:         cfg.Writer,
		practiceOutput: cfg.PracticeOutput,
		pcnOutput:      cfg.PCNOutput,
	}
}

// Result represents one completed run
type Result struct {
	ScoreRows                  int
	PopulationRows             int
	PracticesRanked            int
	PCNsRanked                 int
	PracticeExcludedRows       int
	PracticeExcludedPopulation int64
	PCNExcludedRows            int
	PCNExcludedPopulation      int64
	Duration                   time.Duration
}

// Run executes the full pipeline once
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	start := time.Now()

	tables, err := p.loader.LoadAll(ctx, p.files)
	if err != nil {
		return nil, err
	}
	util.DebugLog("load finished in %v", time.Since(start))

	util.InfoLog("Loaded %s LSOA scores, %s population rows, %s practices, %s PCNs, %s memberships",
		humanize.Comma(int64(len(tables.Scores))),
		humanize.Comma(int64(len(tables.PracticePopulations))),
		humanize.Comma(int64(len(tables.Practices))),
		humanize.Comma(int64(len(tables.PCNs))),
		humanize.Comma(int64(len(tables.Memberships))))

	scores := tables.ScoreIndex()
	memberships := tables.MembershipIndex()

	pcnPopulations := resolve.ToPCNs(tables.PracticePopulations, memberships)

	// The two levels share read-only inputs and write disjoint results, so
	// they can run side by side.
	aggStart := time.Now()
	var practiceLevel, pcnLevel *aggregate.Result
	var wg conc.WaitGroup
	wg.Go(func() {
		practiceLevel = aggregate.WeightedDeciles(tables.PracticePopulations, scores)
	})
	wg.Go(func() {
		pcnLevel = aggregate.WeightedDeciles(pcnPopulations, scores)
	})
	wg.Wait()
	util.DebugLog("aggregation finished in %v", time.Since(aggStart))

	logExcluded("practice", practiceLevel)
	logExcluded("PCN", pcnLevel)

	practiceRows := enrich.Practices(practiceLevel.Records, tables.PracticeIndex(), memberships)
	pcnRows := enrich.PCNs(pcnLevel.Records, tables.PCNIndex())

	if err := p.writer.WritePractices(p.practiceOutput, practiceRows); err != nil {
		return nil, err
	}
	if err := p.writer.WritePCNs(p.pcnOutput, pcnRows); err != nil {
		return nil, err
	}

	return &Result{
		ScoreRows:                  len(tables.Scores),
		PopulationRows:             len(tables.PracticePopulations),
		PracticesRanked:            len(practiceRows),
		PCNsRanked:                 len(pcnRows),
		PracticeExcludedRows:       practiceLevel.ExcludedRows,
		PracticeExcludedPopulation: practiceLevel.ExcludedPopulation,
		PCNExcludedRows:            pcnLevel.ExcludedRows,
		PCNExcludedPopulation:      pcnLevel.ExcludedPopulation,
		Duration:                   time.Since(start),
	}, nil
}

// logExcluded surfaces population silently lost to the inner area join.
// Cross-border patients make a small number normal; a large one points at a
// vintage mismatch between the inputs.
func logExcluded(level string, res *aggregate.Result) {
	if res.ExcludedRows == 0 {
		return
	}
	util.WarnLog("%s level: %s rows with unknown LSOA codes excluded (%s patients)",
		level, humanize.Comma(int64(res.ExcludedRows)), humanize.Comma(res.ExcludedPopulation))
}

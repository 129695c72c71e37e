package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/blackwellrd/practice-pcn-imd/internal/output"
	"github.com/blackwellrd/practice-pcn-imd/internal/pipeline"
	"github.com/blackwellrd/practice-pcn-imd/internal/source"
	"github.com/blackwellrd/practice-pcn-imd/internal/store"
	"github.com/blackwellrd/practice-pcn-imd/internal/util"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full aggregation pipeline",
	Long: `Run the whole pipeline: load the five input tables, resolve PCN
memberships, aggregate deprivation scores at practice and PCN level,
attach directory metadata and write the two result tables.

The run is recorded in the audit database unless --db is empty. There are
no partial-run modes; on any failure, fix the inputs and re-run.`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("input", "i", "data", "input directory holding the five source tables")
	runCmd.Flags().StringP("output", "o", "output", "output directory for the two result tables")
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	// The input key is shared with the check command, so binding happens here
	// rather than in init; only the invoked command's flag wins.
	viper.BindPFlag("input", cmd.Flags().Lookup("input"))
	viper.BindPFlag("output", cmd.Flags().Lookup("output"))

	util.SetVerbose(viper.GetBool("verbose"))
	util.SetQuiet(viper.GetBool("quiet"))

	inputDir := viper.GetString("input")
	outputDir := viper.GetString("output")
	if inputDir == "" {
		return fmt.Errorf("%w: input directory is required (use --input/-i or set in config)", util.ErrInvalidConfig)
	}

	files := inputFiles()
	practiceOut := filepath.Join(outputDir, GetConfigString("practice-output", output.DefaultPracticeFile))
	pcnOut := filepath.Join(outputDir, GetConfigString("pcn-output", output.DefaultPCNFile))

	loader := source.New(&source.Config{
		Dir:          inputDir,
		ShowProgress: util.IsTerminal(os.Stderr.Fd()) && !util.IsQuiet(),
	})

	pipe := pipeline.New(&pipeline.Config{
		Loader:         loader,
		Files:          files,
		Writer:         output.New(nil),
		PracticeOutput: practiceOut,
		PCNOutput:      pcnOut,
	})

	runID := uuid.NewString()
	started := time.Now()

	util.InfoLog("Run %s", runID)
	util.InfoLog("Input: %s", inputDir)

	result, err := pipe.Run(ctx)
	if err != nil {
		return fmt.Errorf("pipeline failed: %w", err)
	}

	util.SuccessLog("Pipeline complete in %v", result.Duration.Round(time.Millisecond))
	util.InfoLog("  Practices ranked: %s", humanize.Comma(int64(result.PracticesRanked)))
	util.InfoLog("  PCNs ranked: %s", humanize.Comma(int64(result.PCNsRanked)))
	util.InfoLog("  Practice table: %s", practiceOut)
	util.InfoLog("  PCN table: %s", pcnOut)
	if result.PracticeExcludedPopulation > 0 {
		util.WarnLog("  Excluded patients (unknown LSOAs): %s", humanize.Comma(result.PracticeExcludedPopulation))
	}

	recordRun(runID, started, result, practiceOut, pcnOut)
	return nil
}

// recordRun writes the audit record. Audit failures never fail the run.
func recordRun(runID string, started time.Time, result *pipeline.Result, practiceOut, pcnOut string) {
	dbPath := viper.GetString("db")
	if dbPath == "" {
		return
	}

	db, err := store.Open(dbPath)
	if err != nil {
		util.WarnLog("Audit database unavailable: %v", err)
		return
	}
	defer db.Close()

	err = db.RecordRun(&store.Run{
		RunID:                      runID,
		StartedAt:                  started,
		CompletedAt:                time.Now(),
		ScoreRows:                  result.ScoreRows,
		PopulationRows:             result.PopulationRows,
		PracticesRanked:            result.PracticesRanked,
		PCNsRanked:                 result.PCNsRanked,
		PracticeExcludedRows:       result.PracticeExcludedRows,
		PracticeExcludedPopulation: result.PracticeExcludedPopulation,
		PCNExcludedRows:            result.PCNExcludedRows,
		PCNExcludedPopulation:      result.PCNExcludedPopulation,
		PracticeOutput:             practiceOut,
		PCNOutput:                  pcnOut,
	})
	if err != nil {
		util.WarnLog("Failed to record run: %v", err)
	}
}

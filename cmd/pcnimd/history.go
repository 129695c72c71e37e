package main

import (
	"fmt"

	"github.com/blackwellrd/practice-pcn-imd/internal/store"
	"github.com/blackwellrd/practice-pcn-imd/internal/util"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent pipeline runs from the audit database",
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().Int("limit", 20, "maximum number of runs to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	viper.BindPFlag("limit", cmd.Flags().Lookup("limit"))

	util.SetVerbose(viper.GetBool("verbose"))
	util.SetQuiet(viper.GetBool("quiet"))

	dbPath := viper.GetString("db")
	if dbPath == "" {
		return fmt.Errorf("auditing is disabled (--db is empty)")
	}

	db, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open audit database: %w", err)
	}
	defer db.Close()

	runs, err := db.ListRuns(GetConfigInt("limit", 20))
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		util.InfoLog("No recorded runs in %s", dbPath)
		return nil
	}

	for _, r := range runs {
		util.InfoLog("%s  %s", r.StartedAt.Format("2006-01-02 15:04:05"), r.RunID)
		util.InfoLog("  practices: %s ranked, PCNs: %s ranked, population rows: %s",
			humanize.Comma(int64(r.PracticesRanked)),
			humanize.Comma(int64(r.PCNsRanked)),
			humanize.Comma(int64(r.PopulationRows)))
		if r.PracticeExcludedPopulation > 0 || r.PCNExcludedPopulation > 0 {
			util.WarnLog("  excluded patients: %s (practice level), %s (PCN level)",
				humanize.Comma(r.PracticeExcludedPopulation),
				humanize.Comma(r.PCNExcludedPopulation))
		}
	}

	return nil
}

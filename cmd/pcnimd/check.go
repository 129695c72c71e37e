package main

import (
	"fmt"

	"github.com/blackwellrd/practice-pcn-imd/internal/source"
	"github.com/blackwellrd/practice-pcn-imd/internal/store"
	"github.com/blackwellrd/practice-pcn-imd/internal/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the input tables without running the pipeline",
	Long: `Check that all five input tables exist and carry the required columns,
and that the audit database is writable.

Use this before a run to catch missing files or renamed columns early.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringP("input", "i", "data", "input directory holding the five source tables")
}

func runCheck(cmd *cobra.Command, args []string) error {
	// The input key is shared with the run command; bind at execution time so
	// the other command's flag never shadows this one.
	viper.BindPFlag("input", cmd.Flags().Lookup("input"))

	util.SetVerbose(viper.GetBool("verbose"))
	util.SetQuiet(viper.GetBool("quiet"))

	inputDir := viper.GetString("input")
	loader := source.New(&source.Config{Dir: inputDir})

	util.InfoLog("Checking input tables in %s", inputDir)

	failures := 0
	for _, check := range loader.CheckFiles(inputFiles()) {
		if check.Err != nil {
			failures++
			util.ErrorLog("[✗] %s: %v", check.Table, check.Err)
			continue
		}
		util.InfoLog("[✓] %s: %s", check.Table, check.Path)
	}

	// Audit database check, skipped when auditing is disabled
	if dbPath := viper.GetString("db"); dbPath != "" {
		db, err := store.Open(dbPath)
		if err != nil {
			failures++
			util.ErrorLog("[✗] audit database: %v", err)
		} else {
			db.Close()
			util.InfoLog("[✓] audit database: %s", dbPath)
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d check(s) failed", failures)
	}

	util.SuccessLog("All checks passed")
	return nil
}

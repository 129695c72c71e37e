package main

import (
	"fmt"
	"os"

	"github.com/blackwellrd/practice-pcn-imd/internal/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Version is set at build time
	Version = "dev"

	cfgFile string

	rootCmd = &cobra.Command{
		Use:   "pcnimd",
		Short: "Rank GP practices and PCNs by population-weighted deprivation",
		Long: `pcnimd aggregates LSOA-level IMD deprivation scores up to GP practices
and Primary Care Networks, weighting each area's score by the registered
population, and ranks both levels into deciles.

It is a one-shot batch pipeline: load the input tables, resolve PCN
memberships, aggregate both levels, attach directory metadata and write
the two delimited result tables. Re-running on the same inputs produces
byte-identical output.`,
		Version: Version,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./configs/pcnimd.yaml)")
	rootCmd.PersistentFlags().String("db", "pcnimd-audit.db", "run-audit database file (empty disables auditing)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "quiet output (errors only)")

	// Bind flags to viper
	viper.BindPFlag("db", rootCmd.PersistentFlags().Lookup("db"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
}

func initConfig() {
	util.SetColors(util.IsTerminal(os.Stderr.Fd()))

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Search for config in common locations
		viper.AddConfigPath("./configs")
		viper.AddConfigPath(".")
		viper.SetConfigName("pcnimd")
		viper.SetConfigType("yaml")
	}

	// Read in environment variables that match
	viper.SetEnvPrefix("PCNIMD")
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && !viper.GetBool("quiet") {
		util.InfoLog("Using config file: %s", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

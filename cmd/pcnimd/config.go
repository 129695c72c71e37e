package main

import (
	"github.com/blackwellrd/practice-pcn-imd/internal/source"
	"github.com/spf13/viper"
)

// GetConfigString retrieves a string config value with proper precedence:
// 1. Command-line flag (if set)
// 2. Environment variable (PCNIMD_*)
// 3. Config file
// 4. Default value
func GetConfigString(key string, defaultValue string) string {
	val := viper.GetString(key)
	if val == "" {
		return defaultValue
	}
	return val
}

// GetConfigInt retrieves an int config value with proper precedence
func GetConfigInt(key string, defaultValue int) int {
	val := viper.GetInt(key)
	if val == 0 {
		return defaultValue
	}
	return val
}

// inputFiles resolves the five input table names, each overridable via
// config or environment
func inputFiles() source.Files {
	return source.Files{
		Scores:      GetConfigString("scores-file", source.DefaultScoresFile),
		Populations: GetConfigString("populations-file", source.DefaultPopulationsFile),
		Practices:   GetConfigString("practices-file", source.DefaultPracticesFile),
		PCNs:        GetConfigString("pcns-file", source.DefaultPCNsFile),
		Memberships: GetConfigString("memberships-file", source.DefaultMembershipsFile),
	}
}

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/blackwellrd/practice-pcn-imd/internal/source"
)

// writeInputDir creates a directory holding all five input tables with valid
// headers, which is everything the check command inspects.
func writeInputDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		source.DefaultScoresFile:      "lsoa_code,imd_score,population\n",
		source.DefaultPopulationsFile: "practice_code,lsoa_code,patient_count\n",
		source.DefaultPracticesFile:   "practice_code,name,postcode,status,setting\n",
		source.DefaultPCNsFile:        "pcn_code,name,parent_code,postcode,close_date\n",
		source.DefaultMembershipsFile: "practice_code,pcn_code,depart_date\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	return dir
}

func TestCheckHonorsInputFlag(t *testing.T) {
	// The run command declares an input flag too; check must read its own,
	// not run's never-parsed default.
	dir := writeInputDir(t)

	rootCmd.SetArgs([]string{"check", "--input", dir, "--db", ""})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("check failed against a valid input directory: %v", err)
	}
}

func TestCheckReportsMissingTables(t *testing.T) {
	rootCmd.SetArgs([]string{"check", "--input", t.TempDir(), "--db", ""})
	if err := rootCmd.Execute(); err == nil {
		t.Fatal("expected failure for an empty input directory")
	}
}

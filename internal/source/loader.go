// Package source reads the five delimited input tables into memory.
//
// Columns are located by header name, so column order in the source files is
// free. Directory filtering (inactive practices, closed PCNs, departed
// memberships) happens here; the downstream pipeline only ever sees active
// rows.
package source

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/blackwellrd/practice-pcn-imd/internal/model"
	"github.com/blackwellrd/practice-pcn-imd/internal/util"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/afero"
)

// Default input file names, relative to the input directory
const (
	DefaultScoresFile      = "lsoa_imd.csv"
	DefaultPopulationsFile = "practice_lsoa_patients.csv"
	DefaultPracticesFile   = "practices.csv"
	DefaultPCNsFile        = "pcns.csv"
	DefaultMembershipsFile = "pcn_members.csv"
)

// ODS flag values the directory filter keeps
const (
	activeStatus = "A"
	gpSetting    = "4"
)

// Required columns per table
var (
	scoreColumns      = []string{"lsoa_code", "imd_score"}
	populationColumns = []string{"practice_code", "lsoa_code", "patient_count"}
	practiceColumns   = []string{"practice_code", "name", "postcode", "status", "setting"}
	pcnColumns        = []string{"pcn_code", "name", "parent_code", "postcode"}
	membershipColumns = []string{"practice_code", "pcn_code"}
)

// Files names the five input tables for one run
type Files struct {
	Scores      string
	Populations string
	Practices   string
	PCNs        string
	Memberships string
}

// DefaultFiles returns the conventional input file names
func DefaultFiles() Files {
	return Files{
		Scores:      DefaultScoresFile,
		Populations: DefaultPopulationsFile,
		Practices:   DefaultPracticesFile,
		PCNs:        DefaultPCNsFile,
		Memberships: DefaultMembershipsFile,
	}
}

// Loader reads input tables from a directory
type Loader struct {
	fs       afero.Fs
	dir      string
	comma    rune
	progress bool
}

// Config holds loader configuration
type Config struct {
	Fs           afero.Fs // defaults to the OS filesystem
	Dir          string
	Comma        rune // defaults to ','
	ShowProgress bool
}

// New creates a new Loader
func New(cfg *Config) *Loader {
	fs := cfg.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	comma := cfg.Comma
	if comma == 0 {
		comma = ','
	}
	return &Loader{
		fs:       fs,
		dir:      cfg.Dir,
		comma:    comma,
		progress: cfg.ShowProgress,
	}
}

// table is an open delimited file with its header resolved
type table struct {
	file  afero.File
	r     *csv.Reader
	index map[string]int
	label string
}

func (l *Loader) openTable(name, label string, required []string) (*table, error) {
	path := filepath.Join(l.dir, name)

	file, err := l.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s (%s)", util.ErrMissingTable, label, path)
	}

	r := csv.NewReader(bufio.NewReader(file))
	r.Comma = l.comma
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("%s: unable to read header: %w", label, err)
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.ToLower(strings.TrimSpace(col))] = i
	}

	var missing []string
	for _, col := range required {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		file.Close()
		return nil, fmt.Errorf("%w: %s missing columns: %s",
			util.ErrBadHeader, label, strings.Join(missing, ", "))
	}

	return &table{file: file, r: r, index: index, label: label}, nil
}

func (t *table) get(record []string, key string) string {
	pos, ok := t.index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}

func (t *table) close() {
	t.file.Close()
}

// newBar returns an indeterminate progress bar, or nil when progress
// reporting is off
func (l *Loader) newBar(description string) *progressbar.ProgressBar {
	if !l.progress {
		return nil
	}
	return progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("rows"),
		progressbar.OptionThrottle(200*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

// forEachRow streams data rows through fn, counting rows fn rejects.
// A row the csv reader cannot parse is counted and skipped, never fatal.
func (l *Loader) forEachRow(t *table, bar *progressbar.ProgressBar, fn func(record []string) bool) {
	kept, skipped := 0, 0
	for {
		record, err := t.r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			skipped++
			continue
		}
		if !fn(record) {
			skipped++
			continue
		}
		kept++
		if bar != nil {
			bar.Add(1)
		}
	}
	if bar != nil {
		bar.Finish()
	}
	util.DebugLog("%s: %d rows loaded, %d skipped", t.label, kept, skipped)
	if skipped > 0 {
		util.WarnLog("%s: skipped %d malformed rows", t.label, skipped)
	}
}

// LoadAreaScores reads the LSOA deprivation score table
func (l *Loader) LoadAreaScores(name string) ([]model.AreaScore, error) {
	t, err := l.openTable(name, "LSOA scores", scoreColumns)
	if err != nil {
		return nil, err
	}
	defer t.close()

	var out []model.AreaScore
	l.forEachRow(t, l.newBar("Loading LSOA scores"), func(record []string) bool {
		code := t.get(record, "lsoa_code")
		score, err := strconv.ParseFloat(t.get(record, "imd_score"), 64)
		if code == "" || err != nil {
			return false
		}
		pop, _ := strconv.ParseInt(t.get(record, "population"), 10, 64)
		out = append(out, model.AreaScore{AreaCode: code, Score: score, Population: pop})
		return true
	})
	return out, nil
}

// LoadPracticePopulations reads the practice-by-LSOA registered patient table
func (l *Loader) LoadPracticePopulations(name string) ([]model.AreaPopulation, error) {
	t, err := l.openTable(name, "practice populations", populationColumns)
	if err != nil {
		return nil, err
	}
	defer t.close()

	var out []model.AreaPopulation
	l.forEachRow(t, l.newBar("Loading practice populations"), func(record []string) bool {
		practice := t.get(record, "practice_code")
		area := t.get(record, "lsoa_code")
		count, err := strconv.ParseInt(t.get(record, "patient_count"), 10, 64)
		if practice == "" || area == "" || err != nil || count < 0 {
			return false
		}
		out = append(out, model.AreaPopulation{EntityCode: practice, AreaCode: area, Population: count})
		return true
	})
	return out, nil
}

// LoadPractices reads the practice directory, keeping only active GP
// practices (status A, setting 4)
func (l *Loader) LoadPractices(name string) ([]model.Practice, error) {
	t, err := l.openTable(name, "practice directory", practiceColumns)
	if err != nil {
		return nil, err
	}
	defer t.close()

	var out []model.Practice
	l.forEachRow(t, l.newBar("Loading practice directory"), func(record []string) bool {
		code := t.get(record, "practice_code")
		if code == "" {
			return false
		}
		if t.get(record, "status") != activeStatus || t.get(record, "setting") != gpSetting {
			return false
		}
		out = append(out, model.Practice{
			Code:     code,
			Name:     t.get(record, "name"),
			Postcode: t.get(record, "postcode"),
		})
		return true
	})
	return out, nil
}

// LoadPCNs reads the PCN directory, excluding closed networks
func (l *Loader) LoadPCNs(name string) ([]model.PCN, error) {
	t, err := l.openTable(name, "PCN directory", pcnColumns)
	if err != nil {
		return nil, err
	}
	defer t.close()

	var out []model.PCN
	l.forEachRow(t, l.newBar("Loading PCN directory"), func(record []string) bool {
		code := t.get(record, "pcn_code")
		if code == "" || t.get(record, "close_date") != "" {
			return false
		}
		out = append(out, model.PCN{
			Code:       code,
			Name:       t.get(record, "name"),
			ParentCode: t.get(record, "parent_code"),
			Postcode:   t.get(record, "postcode"),
		})
		return true
	})
	return out, nil
}

// LoadMemberships reads the practice-to-PCN membership table, excluding
// departed memberships
func (l *Loader) LoadMemberships(name string) ([]model.Membership, error) {
	t, err := l.openTable(name, "PCN memberships", membershipColumns)
	if err != nil {
		return nil, err
	}
	defer t.close()

	var out []model.Membership
	l.forEachRow(t, l.newBar("Loading PCN memberships"), func(record []string) bool {
		practice := t.get(record, "practice_code")
		pcn := t.get(record, "pcn_code")
		if practice == "" || pcn == "" || t.get(record, "depart_date") != "" {
			return false
		}
		out = append(out, model.Membership{PracticeCode: practice, PCNCode: pcn})
		return true
	})
	return out, nil
}

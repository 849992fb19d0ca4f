// Package batch runs rewrite jobs loaded from a YAML file.
//
// A batch file lists independent jobs, each naming a query and the rewrites
// to apply (count query, sort clause). Jobs never abort the run: every job
// produces either its rewritten queries or an error, and the run reports
// how many failed.
package batch

import (
	"bytes"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/querykit/oql/internal/enhancer"
)

// File is a parsed batch file.
type File struct {
	// Run optionally names the batch for log correlation.
	Run string `yaml:"run,omitempty"`

	Jobs []Job `yaml:"jobs"`
}

// Job describes the rewrites to apply to one query.
type Job struct {
	// Name identifies the job in results. Defaults to its index.
	Name string `yaml:"name,omitempty"`

	// Query is the raw query text.
	Query string `yaml:"query"`

	// Native marks provider-native query text.
	Native bool `yaml:"native,omitempty"`

	// Alias is the default alias used to qualify sort keys. When empty,
	// the primary alias detected from the query is used.
	Alias string `yaml:"alias,omitempty"`

	// Count requests a derived count query.
	Count bool `yaml:"count,omitempty"`

	// CountProjection overrides the count target verbatim.
	CountProjection string `yaml:"countProjection,omitempty"`

	// Sort lists the keys to append, in order.
	Sort []SortKey `yaml:"sort,omitempty"`
}

// SortKey is the YAML form of one sort order.
type SortKey struct {
	Property   string `yaml:"property"`
	Direction  string `yaml:"direction,omitempty"` // "asc" (default) or "desc"
	IgnoreCase bool   `yaml:"ignoreCase,omitempty"`
	Unsafe     bool   `yaml:"unsafe,omitempty"`
}

// Result is the outcome of one job.
type Result struct {
	Name   string `json:"name"`
	Sorted string `json:"sorted,omitempty"`
	Count  string `json:"count,omitempty"`
	Error  string `json:"error,omitempty"`
}

// RunResult is the outcome of a whole batch.
type RunResult struct {
	// RunID is a fresh UUIDv7 correlating the run's outputs and logs.
	RunID   string   `json:"run_id"`
	Run     string   `json:"run,omitempty"`
	Results []Result `json:"results"`
	Failed  int      `json:"failed"`
}

// Load reads and decodes a batch file. Unknown fields are rejected so a
// typo in a job key fails loudly instead of silently skipping a rewrite.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read batch file: %w", err)
	}
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode batch file %s: %w", path, err)
	}
	if len(f.Jobs) == 0 {
		return nil, fmt.Errorf("batch file %s has no jobs", path)
	}
	return &f, nil
}

// Run executes every job and collects the results.
func Run(f *File) *RunResult {
	run := &RunResult{
		RunID: uuid.Must(uuid.NewV7()).String(),
		Run:   f.Run,
	}
	for i, job := range f.Jobs {
		res := runJob(job)
		if res.Name == "" {
			res.Name = fmt.Sprintf("job-%d", i)
		}
		if res.Error != "" {
			run.Failed++
		}
		run.Results = append(run.Results, res)
	}
	return run
}

func runJob(job Job) Result {
	res := Result{Name: job.Name}
	e := enhancer.New(enhancer.NewQuery(job.Query, job.Native))

	if len(job.Sort) > 0 {
		alias := job.Alias
		if alias == "" {
			detected, err := e.DetectAlias()
			if err != nil {
				res.Error = err.Error()
				return res
			}
			alias = detected
		}
		sorted, err := e.ApplySorting(toSort(job.Sort), alias)
		if err != nil {
			res.Error = err.Error()
			return res
		}
		res.Sorted = sorted
	}

	if job.Count || job.CountProjection != "" {
		count, err := e.CountQuery(job.CountProjection)
		if err != nil {
			res.Error = err.Error()
			return res
		}
		res.Count = count
	}
	return res
}

func toSort(keys []SortKey) enhancer.Sort {
	s := make(enhancer.Sort, len(keys))
	for i, k := range keys {
		s[i] = enhancer.Order{
			Property:   k.Property,
			IgnoreCase: k.IgnoreCase,
			Unsafe:     k.Unsafe,
		}
		if k.Direction == string(enhancer.Descending) {
			s[i].Direction = enhancer.Descending
		}
	}
	return s
}

package report

import (
	"github.com/matzehuels/unshred/pkg/chain"
	"github.com/matzehuels/unshred/pkg/errors"
	"github.com/matzehuels/unshred/pkg/pipeline"
	"github.com/matzehuels/unshred/pkg/strip"
)

// Report is a reconstruction expressed in strip names.
type Report struct {
	RunID    string    `json:"run_id,omitempty"`
	Strips   int       `json:"strips"`
	Clusters []Cluster `json:"clusters"`
}

// Cluster is the assembly of one palette group.
type Cluster struct {
	ID        int        `json:"id"`
	Chain     []string   `json:"chain"`
	Leftovers [][]string `json:"leftovers,omitempty"`
	Coverage  float64    `json:"coverage"`
}

// FromResult converts a pipeline result over s into a report.
func FromResult(r *pipeline.Result, s *strip.Store) Report {
	names := func(idx []int) []string {
		out := make([]string, len(idx))
		for i, k := range idx {
			out[i] = s.Strip(k).Name
		}
		return out
	}

	rep := Report{RunID: r.RunID, Strips: s.Len()}
	for _, c := range r.Clusters {
		rc := Cluster{ID: c.ID, Chain: names(c.Chain.Primary), Coverage: c.Chain.Coverage()}
		for _, l := range c.Chain.Leftovers {
			rc.Leftovers = append(rc.Leftovers, names(l))
		}
		rep.Clusters = append(rep.Clusters, rc)
	}
	return rep
}

// Results maps the report back onto store indices of s. It fails with
// NOT_FOUND when a named strip is not in s.
func (rep Report) Results(s *strip.Store) ([]chain.Result, error) {
	index := make(map[string]int, s.Len())
	for i := range s.Len() {
		index[s.Strip(i).Name] = i
	}
	lookup := func(names []string) ([]int, error) {
		out := make([]int, len(names))
		for i, n := range names {
			k, ok := index[n]
			if !ok {
				return nil, errors.New(errors.ErrCodeNotFound, "strip %q is not in the strip directory", n)
			}
			out[i] = k
		}
		return out, nil
	}

	results := make([]chain.Result, 0, len(rep.Clusters))
	for _, c := range rep.Clusters {
		primary, err := lookup(c.Chain)
		if err != nil {
			return nil, err
		}
		res := chain.Result{Primary: primary, Size: len(primary)}
		for _, l := range c.Leftovers {
			left, err := lookup(l)
			if err != nil {
				return nil, err
			}
			res.Leftovers = append(res.Leftovers, left)
			res.Size += len(left)
		}
		results = append(results, res)
	}
	return results, nil
}

// validate checks that names are non-empty and that no strip appears twice
// within a cluster. A strip may belong to several clusters under all-match
// membership.
func (rep Report) validate() error {
	for _, c := range rep.Clusters {
		seen := make(map[string]bool)
		check := func(names []string) error {
			for _, n := range names {
				if n == "" {
					return errors.New(errors.ErrCodeInvalidInput, "cluster %d: empty strip name", c.ID)
				}
				if seen[n] {
					return errors.New(errors.ErrCodeInvalidInput, "cluster %d: strip %q appears twice", c.ID, n)
				}
				seen[n] = true
			}
			return nil
		}
		if err := check(c.Chain); err != nil {
			return err
		}
		for _, l := range c.Leftovers {
			if err := check(l); err != nil {
				return err
			}
		}
	}
	return nil
}

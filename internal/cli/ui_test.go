package cli

import (
	"strings"
	"testing"

	"github.com/matzehuels/unshred/pkg/chain"
	"github.com/matzehuels/unshred/pkg/pipeline"
)

func TestRenderSummary(t *testing.T) {
	r := &pipeline.Result{
		Clusters: []pipeline.ClusterResult{
			{ID: 0, Members: []int{0, 1, 2}, Chain: chain.Result{Primary: []int{2, 0, 1}, Size: 3}, CacheHit: true},
			{ID: 1, Members: []int{3, 4, 5, 6}, Chain: chain.Result{Primary: []int{3, 4}, Leftovers: [][]int{{5}, {6}}, Size: 4}},
		},
	}
	out := renderSummary(r)
	for _, want := range []string{"Cluster", "Coverage", "100%", "50%", iconCached, iconFresh} {
		if !strings.Contains(out, want) {
			t.Errorf("summary lacks %q:\n%s", want, out)
		}
	}
	if lines := strings.Count(out, "\n"); lines < 4 {
		t.Errorf("summary has %d lines, want a header and two rows", lines)
	}
}

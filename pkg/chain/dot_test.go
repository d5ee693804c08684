package chain

import (
	"strings"
	"testing"
)

func TestToDOT(t *testing.T) {
	results := []Result{
		{Primary: []int{2, 0, 1}, Size: 3},
		{Primary: []int{3}, Leftovers: [][]int{{4, 5}}, Size: 3},
	}

	dot := ToDOT(results, nil)

	if !strings.HasPrefix(dot, "digraph Chains {") {
		t.Error("ToDOT() should start with 'digraph Chains {'")
	}
	if !strings.HasSuffix(strings.TrimSpace(dot), "}") {
		t.Error("ToDOT() should end with '}'")
	}

	expected := []string{
		"rankdir=LR",
		"subgraph cluster_0",
		"subgraph cluster_1",
		`label="cluster 0 (3/3)"`,
		`label="cluster 1 (1/3)"`,
		"c0_0_0 -> c0_0_1;",
		"c0_0_1 -> c0_0_2;",
		"c1_1_0 -> c1_1_1 [style=dashed];",
	}
	for _, exp := range expected {
		if !strings.Contains(dot, exp) {
			t.Errorf("ToDOT() missing %q", exp)
		}
	}
}

func TestToDOTWithLabels(t *testing.T) {
	names := map[int]string{0: "photo-0.png", 1: "photo-1.png"}
	dot := ToDOT([]Result{{Primary: []int{0, 1}, Size: 2}}, func(i int) string { return names[i] })

	for _, label := range names {
		if !strings.Contains(dot, label) {
			t.Errorf("ToDOT() should contain label %q", label)
		}
	}
}

func TestToDOTEmpty(t *testing.T) {
	dot := ToDOT(nil, nil)
	if !strings.Contains(dot, "digraph Chains {") {
		t.Error("ToDOT() should produce valid DOT for no clusters")
	}
}

func TestToDOTQuotesLabels(t *testing.T) {
	names := map[int]string{0: "café-0.png", 1: `say "hi".png`, 2: `back\slash.png`}
	dot := ToDOT([]Result{{Primary: []int{0, 1, 2}, Size: 3}}, func(i int) string { return names[i] })

	for _, want := range []string{
		`[label="café-0.png"]`,
		`[label="say \"hi\".png"]`,
		`[label="back\\slash.png"]`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %s\n%s", want, dot)
		}
	}
	if strings.Contains(dot, `\u00e9`) {
		t.Error("non-ASCII labels should stay UTF-8")
	}
}

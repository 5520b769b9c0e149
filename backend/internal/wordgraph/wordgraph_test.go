package wordgraph

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chat-wordmap/backend/internal/extract"
)

// cycle returns a deterministic source repeating vals
func cycle(vals ...float64) RandomSource {
	i := 0
	return func() float64 {
		v := vals[i%len(vals)]
		i++
		return v
	}
}

func words(freqs ...int) []extract.WordEntry {
	out := make([]extract.WordEntry, len(freqs))
	for i, f := range freqs {
		out[i] = extract.WordEntry{Word: fmt.Sprintf("word%d", i), Frequency: f}
	}
	return out
}

func TestBuildNodes(t *testing.T) {
	nodes := BuildNodes(words(200, 60, 30, 1, 0))
	require.Len(t, nodes, 5)

	assert.Equal(t, Node{ID: 0, Word: "word0", Frequency: 200, Size: 40, Group: 0}, nodes[0])
	assert.Equal(t, 30.0, nodes[1].Size)
	assert.Equal(t, 15.0, nodes[2].Size)
	assert.Equal(t, 8.0, nodes[3].Size)
	assert.Equal(t, 8.0, nodes[4].Size)
	assert.Equal(t, 4, nodes[4].ID)
}

func TestBuildNodes_GroupsCycle(t *testing.T) {
	freqs := make([]int, 30)
	for i := range freqs {
		freqs[i] = 30 - i
	}
	for _, node := range BuildNodes(words(freqs...)) {
		assert.Equal(t, node.ID%12, node.Group)
		assert.GreaterOrEqual(t, node.Group, 0)
		assert.Less(t, node.Group, 12)
	}
}

func TestConnections(t *testing.T) {
	tests := []struct {
		freq int
		want int
	}{
		{0, 3}, {1, 3}, {19, 3}, {20, 4}, {24, 4}, {50, 10}, {75, 15}, {1000, 15},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Connections(tt.freq), "frequency %d", tt.freq)
	}
}

func TestStrength(t *testing.T) {
	assert.Equal(t, 0.5, Strength(0, 0))
	assert.Equal(t, 1.0, Strength(7, 7))
	assert.InDelta(t, 0.5, Strength(10, 5), 1e-9)
	assert.InDelta(t, 0.5, Strength(5, 10), 1e-9)
	assert.Equal(t, 0.2, Strength(100, 1))
	assert.Equal(t, 0.2, Strength(3, 0))
}

func TestBuildLinks_ExactShuffle(t *testing.T) {
	freqs := make([]int, 20)
	freqs[0] = 75
	for i := 1; i < len(freqs); i++ {
		freqs[i] = 1
	}

	links := BuildLinks(BuildNodes(words(freqs...)), cycle(0.5, 0.25, 0.75))

	var fromZero []int
	for _, l := range links {
		if l.Source == 0 {
			fromZero = append(fromZero, l.Target)
			assert.Equal(t, 0.2, l.Strength)
		}
	}
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 18, 16, 14, 17, 19, 7, 10, 12, 8}, fromZero)
}

func TestBuildLinks_NeighborhoodFirst(t *testing.T) {
	// every node asks for 3 connections, fewer than its neighborhood
	links := BuildLinks(BuildNodes(words(1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1)), cycle(0))

	var fromSeven []int
	for _, l := range links {
		if l.Source == 7 {
			fromSeven = append(fromSeven, l.Target)
			assert.Equal(t, 1.0, l.Strength)
		}
	}
	assert.Equal(t, []int{2, 3, 4}, fromSeven)
}

func TestBuildLinks_ConnectionCount(t *testing.T) {
	sizes := []int{0, 1, 2, 3, 4, 7, 12, 40}
	for _, n := range sizes {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			freqs := make([]int, n)
			for i := range freqs {
				freqs[i] = (n - i) * 9
			}
			nodes := BuildNodes(words(freqs...))
			links := BuildLinks(nodes, nil)

			perSource := make(map[int]int)
			for _, l := range links {
				perSource[l.Source]++
				assert.NotEqual(t, l.Source, l.Target)
				assert.GreaterOrEqual(t, l.Strength, 0.2)
				assert.LessOrEqual(t, l.Strength, 1.0)
				assert.True(t, l.Target >= 0 && l.Target < n)
			}
			for _, node := range nodes {
				want := min(Connections(node.Frequency), n-1)
				assert.Equal(t, want, perSource[node.ID], "node %d", node.ID)
			}
		})
	}
}

func TestBuildLinks_NoDuplicateTargets(t *testing.T) {
	freqs := make([]int, 60)
	for i := range freqs {
		freqs[i] = 120 - i
	}
	links := BuildLinks(BuildNodes(words(freqs...)), nil)

	seen := make(map[[2]int]bool)
	for _, l := range links {
		key := [2]int{l.Source, l.Target}
		assert.False(t, seen[key], "duplicate link %v", key)
		seen[key] = true
	}
}

func TestBuildLinks_ShuffleIsUniform(t *testing.T) {
	// node 0 keeps 5 neighbors and draws 10 of the 14 remaining nodes;
	// each remaining node should be drawn about 10/14 of the time.
	freqs := make([]int, 20)
	freqs[0] = 75
	for i := 1; i < len(freqs); i++ {
		freqs[i] = 1
	}
	nodes := BuildNodes(words(freqs...))

	const runs = 4000
	hits := make(map[int]int)
	for r := 0; r < runs; r++ {
		for _, l := range BuildLinks(nodes, nil) {
			if l.Source == 0 && l.Target > 5 {
				hits[l.Target]++
			}
		}
	}

	expected := runs * 10.0 / 14.0
	for target := 6; target < 20; target++ {
		assert.InDelta(t, expected, float64(hits[target]), expected*0.1, "target %d", target)
	}
}

func TestBuild_Empty(t *testing.T) {
	g := Build(nil, nil)
	assert.NotNil(t, g.Nodes)
	assert.NotNil(t, g.Links)
	assert.Empty(t, g.Nodes)
	assert.Empty(t, g.Links)
}

func TestBuild_SingleNode(t *testing.T) {
	g := Build(words(42), cycle(0.3))
	require.Len(t, g.Nodes, 1)
	assert.Empty(t, g.Links)
}

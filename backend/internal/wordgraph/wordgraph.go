// Package wordgraph turns a ranked word list into nodes and weighted links
// for a force-directed layout.
//
// Node construction is a pure function of the word list. Link construction
// mixes a deterministic rank neighborhood with randomly sampled extra
// targets, so topology differs between runs on the same input.
package wordgraph

import (
	"math"
	"math/rand/v2"

	"chat-wordmap/backend/internal/constants"
	"chat-wordmap/backend/internal/extract"
)

// RandomSource returns a uniform value in [0, 1)
type RandomSource func() float64

// DefaultRandom is the unseeded source used outside tests
var DefaultRandom RandomSource = rand.Float64

// Node is a word placed in the graph. ID equals its rank index.
type Node struct {
	ID        int     `json:"id"`
	Word      string  `json:"word"`
	Frequency int     `json:"frequency"`
	Size      float64 `json:"size"`
	Group     int     `json:"group"`
}

// Link is a directed, weighted edge between two node ids
type Link struct {
	Source   int     `json:"source"`
	Target   int     `json:"target"`
	Strength float64 `json:"strength"`
}

// Graph is the synthesized node/link set
type Graph struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
}

// Build creates nodes from words and links between them. A nil rnd uses DefaultRandom.
func Build(words []extract.WordEntry, rnd RandomSource) *Graph {
	nodes := BuildNodes(words)
	return &Graph{
		Nodes: nodes,
		Links: BuildLinks(nodes, rnd),
	}
}

// BuildNodes sizes and groups one node per word
func BuildNodes(words []extract.WordEntry) []Node {
	nodes := make([]Node, len(words))
	for i, w := range words {
		nodes[i] = Node{
			ID:        i,
			Word:      w.Word,
			Frequency: w.Frequency,
			Size:      NodeSize(w.Frequency),
			Group:     i % constants.NodeGroups,
		}
	}
	return nodes
}

// NodeSize maps a frequency onto the rendered size range
func NodeSize(frequency int) float64 {
	return clamp(float64(frequency)*constants.NodeSizePerOccurrence, constants.MinNodeSize, constants.MaxNodeSize)
}

// Connections is how many links a node with the given frequency asks for
func Connections(frequency int) int {
	n := int(math.Floor(float64(frequency) / constants.FrequencyPerConnection))
	return min(max(n, constants.MinConnections), constants.MaxConnections)
}

// Strength scores how similar two frequencies are, in [MinLinkStrength, 1]
func Strength(a, b int) float64 {
	maxFreq := max(a, b)
	if maxFreq <= 0 {
		return constants.ZeroFrequencyStrength
	}
	diff := math.Abs(float64(a - b))
	return math.Max(constants.MinLinkStrength, 1.0-diff/float64(maxFreq))
}

// BuildLinks emits, for every node, links to its rank neighborhood topped up
// with randomly chosen nodes until it has Connections(frequency) targets, or
// every other node. Links are directed and not symmetrized.
func BuildLinks(nodes []Node, rnd RandomSource) []Link {
	if rnd == nil {
		rnd = DefaultRandom
	}

	n := len(nodes)
	links := make([]Link, 0)

	for i, node := range nodes {
		want := Connections(node.Frequency)
		targets := neighborhood(i, n)

		if fill := want - len(targets); fill > 0 {
			pool := candidatePool(i, n, targets)
			shuffle(pool, rnd)
			targets = append(targets, pool[:min(fill, len(pool))]...)
		}
		if len(targets) > want {
			targets = targets[:want]
		}

		for _, t := range targets {
			links = append(links, Link{
				Source:   i,
				Target:   t,
				Strength: Strength(node.Frequency, nodes[t].Frequency),
			})
		}
	}

	return links
}

// neighborhood returns the ranks within the fixed window around i, excluding i
func neighborhood(i, n int) []int {
	lo := max(0, i-constants.NeighborsBefore)
	hi := min(n, i+constants.NeighborsAfter+1)

	out := make([]int, 0, hi-lo)
	for j := lo; j < hi; j++ {
		if j != i {
			out = append(out, j)
		}
	}
	return out
}

// candidatePool lists every index other than i outside the neighborhood.
// The neighborhood is a contiguous range, so a bounds check is enough.
func candidatePool(i, n int, near []int) []int {
	if len(near) == 0 {
		pool := make([]int, 0, max(n-1, 0))
		for j := 0; j < n; j++ {
			if j != i {
				pool = append(pool, j)
			}
		}
		return pool
	}

	lo, hi := near[0], near[len(near)-1]
	pool := make([]int, 0, max(n-len(near)-1, 0))
	for j := 0; j < n; j++ {
		if j != i && (j < lo || j > hi) {
			pool = append(pool, j)
		}
	}
	return pool
}

// shuffle is a Fisher-Yates shuffle driven by rnd
func shuffle(s []int, rnd RandomSource) {
	for k := len(s) - 1; k > 0; k-- {
		j := int(math.Floor(rnd() * float64(k+1)))
		if j > k {
			j = k
		}
		s[k], s[j] = s[j], s[k]
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

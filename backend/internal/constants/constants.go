package constants

// Analysis constants
const (
	// DefaultNumWordsToDisplay is the default cap on ranked words, and so on graph nodes
	DefaultNumWordsToDisplay = 1000

	// MinWordLength is the shortest token kept after filtering
	MinWordLength = 2
)

// Node sizing constants
const (
	// MinNodeSize and MaxNodeSize bound the rendered node radius
	MinNodeSize = 8.0
	MaxNodeSize = 40.0

	// NodeSizePerOccurrence scales frequency into node size before clamping
	NodeSizePerOccurrence = 0.5

	// NodeGroups is the number of colour buckets nodes cycle through
	NodeGroups = 12
)

// Link generation constants
const (
	// MinConnections and MaxConnections bound the links emitted per node
	MinConnections = 3
	MaxConnections = 15

	// FrequencyPerConnection is how many occurrences earn one extra connection
	FrequencyPerConnection = 5

	// NeighborsBefore and NeighborsAfter define the rank window linked deterministically
	NeighborsBefore = 5
	NeighborsAfter  = 5

	// MinLinkStrength is the floor for frequency-similarity strength
	MinLinkStrength = 0.2
	// ZeroFrequencyStrength is used when both endpoints have zero frequency
	ZeroFrequencyStrength = 0.5
)

// Cache constants
const (
	// CacheKeyPrefix namespaces result cache keys
	CacheKeyPrefix = "wordmap:"
)

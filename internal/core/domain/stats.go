package domain

// CacheStats summarizes how a campaign used the uid cache.
type CacheStats struct {
	// LoadedNodes counts records reused from the cache.
	LoadedNodes int
	// SkippedNodes counts cached records ignored because the node or a dependency changed.
	SkippedNodes int
	// DiscardedNodes counts corrupt records dropped by the store.
	DiscardedNodes int
	// ComputedNodes counts records computed during the campaign.
	ComputedNodes int
	// SavedNodes counts records written on commit.
	SavedNodes int

	LoadedLoops    int
	SkippedLoops   int
	DiscardedLoops int
	ComputedLoops  int
	SavedLoops     int

	// StructureChanged reports whether any computed Structure differs from its cached value.
	StructureChanged bool
}

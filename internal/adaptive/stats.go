package adaptive

// Stats is a read-only snapshot of the adaptive tier's lifetime
// counters, exposed to callers for diagnostics and testing.
type Stats struct {
	BaselineExecutions    uint64
	SpecializedExecutions uint64
	Deoptimizations       uint64
	CacheHits             uint64
	CacheMisses           uint64
	VariableCacheEntries int
	CallableCacheEntries int
	PropertyCacheEntries int
	HotPathCount         int
}

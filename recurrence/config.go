package recurrence

// EngineConfig holds configuration options for the recurrence engine
type EngineConfig struct {
	// Clock supplies "now" for overdue classification. Nil means the
	// system clock.
	Clock Clock

	// MaxOccurrences bounds how many occurrences a single Generate call
	// may produce, so expansion terminates regardless of how a range or
	// anchor date is supplied.
	MaxOccurrences int

	// Cache configuration
	CacheEnabled bool
	CacheConfig  CacheConfig
}

// DefaultEngineConfig provides sensible defaults for production use
var DefaultEngineConfig = EngineConfig{
	MaxOccurrences: 365,
	CacheEnabled:   true,
	CacheConfig:    DefaultCacheConfig,
}

// NoCacheConfig turns off expansion caching entirely; useful for tests
// and for callers that cache results themselves.
var NoCacheConfig = EngineConfig{
	MaxOccurrences: 365,
	CacheEnabled:   false,
}

// NewEngineWithConfig creates a new recurrence engine with custom configuration
func NewEngineWithConfig(config EngineConfig) *Engine {
	if config.Clock == nil {
		config.Clock = SystemClock{}
	}
	if config.MaxOccurrences <= 0 {
		config.MaxOccurrences = DefaultEngineConfig.MaxOccurrences
	}

	var cache *ExpansionCache
	if config.CacheEnabled {
		cache = NewExpansionCache(config.CacheConfig)
	}

	return &Engine{
		clock:  config.Clock,
		cache:  cache,
		config: config,
	}
}

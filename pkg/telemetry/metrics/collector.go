package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ingredient-scout/scout/pkg/config"
	"ingredient-scout/scout/pkg/conflict"
)

// MaxPathCardinality bounds the distinct path label values. Paths beyond it
// are recorded as OtherPath.
const MaxPathCardinality = 100

// OtherPath is the path label used once MaxPathCardinality is reached.
const OtherPath = "other"

// Collector records every metric the service exposes.
type Collector struct {
	config   config.MetricsConfig
	registry *prometheus.Registry

	engine  *EngineMetrics
	http    *HTTPMetrics
	catalog *CatalogMetrics
	history *HistoryMetrics

	paths *CardinalityLimiter
}

// NewCollector creates a collector registered on registry. A nil registry
// gets a fresh one; the process-wide default registry is never used so that
// collectors can be created freely in tests.
func NewCollector(cfg config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}

	return &Collector{
		config:   cfg,
		registry: registry,
		engine:   NewEngineMetrics(cfg.Namespace, registry),
		http:     NewHTTPMetrics(cfg.Namespace, registry),
		catalog:  NewCatalogMetrics(cfg.Namespace, registry),
		history:  NewHistoryMetrics(cfg.Namespace, registry),
		paths:    NewCardinalityLimiter(MaxPathCardinality),
	}
}

// Enabled reports whether the collector records anything.
func (c *Collector) Enabled() bool {
	return c != nil && c.config.Enabled
}

// RecordAnalysis records one engine assessment.
func (c *Collector) RecordAnalysis(a conflict.Assessment, duration time.Duration) {
	if !c.Enabled() {
		return
	}
	c.engine.Record(a, duration)
}

// RecordHTTPRequest records one served request.
func (c *Collector) RecordHTTPRequest(path, method string, code int, duration time.Duration) {
	if !c.Enabled() {
		return
	}
	if !c.paths.Allow(path) {
		path = OtherPath
	}
	c.http.Record(path, method, strconv.Itoa(code), duration)
}

// RecordCatalogReload records a reload attempt. engine is the new engine on
// success and nil on failure. Its signature matches rules.ReloadHook.
func (c *Collector) RecordCatalogReload(engine *conflict.RuleEngine, err error) {
	if !c.Enabled() {
		return
	}
	if err != nil {
		c.catalog.RecordReload(ResultError)
		return
	}
	c.catalog.RecordReload(ResultSuccess)
	c.catalog.SetActive(engine)
}

// SetActiveCatalog records the engine serving requests at startup.
func (c *Collector) SetActiveCatalog(engine *conflict.RuleEngine) {
	if !c.Enabled() {
		return
	}
	c.catalog.SetActive(engine)
}

// RecordHistoryWrite records the outcome of persisting one analysis record:
// ResultSuccess, ResultError or ResultDropped.
func (c *Collector) RecordHistoryWrite(result string) {
	if !c.Enabled() {
		return
	}
	c.history.RecordWrite(result)
}

// RecordHistoryPruned records records deleted by retention.
func (c *Collector) RecordHistoryPruned(n int64) {
	if !c.Enabled() {
		return
	}
	c.history.RecordPruned(n)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler returns an HTTP handler for the Prometheus metrics endpoint.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(
		c.registry,
		promhttp.HandlerOpts{
			EnableOpenMetrics: true,
			ErrorHandling:     promhttp.ContinueOnError,
		},
	)
}

// CardinalityLimiter caps the number of distinct values admitted for a label.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a limiter admitting at most maxCardinality
// distinct values.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow reports whether value is, or can become, an admitted value.
func (cl *CardinalityLimiter) Allow(value string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[value]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	if _, exists := cl.current[value]; exists {
		return true
	}
	if len(cl.current) >= cl.maxCardinality {
		return false
	}
	cl.current[value] = struct{}{}
	return true
}

// Count returns the number of admitted values.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}

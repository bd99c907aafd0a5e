// Package reflector runs the property extractor and the value enumerator
// over every site of a reflection document.
package reflector

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"github.com/tsgonest/tsreflect/internal/analyzer"
	"github.com/tsgonest/tsreflect/internal/buildcache"
	"github.com/tsgonest/tsreflect/internal/codegen"
	"github.com/tsgonest/tsreflect/internal/diagnostic"
	"github.com/tsgonest/tsreflect/internal/logger"
	"github.com/tsgonest/tsreflect/internal/metadata"
	"github.com/tsgonest/tsreflect/reflection"
)

// Options configures a Reflector.
type Options struct {
	// Concurrency bounds the number of sites reflected at once. Zero means
	// GOMAXPROCS.
	Concurrency int
	// CacheSize is the number of memoized site results. Zero disables the
	// cache.
	CacheSize int
	// Dominance and MaxDepth are passed to every analyzer scope.
	Dominance bool
	MaxDepth  int
	// Logger defaults to the logger carried by the context.
	Logger logger.Logger
}

// entry is a memoized site result. Diagnostics are kept so a hit reports
// the same findings for its own site.
type entry struct {
	properties  []reflection.PropertyDescriptor
	values      []metadata.Literal
	diagnostics []diagnostic.Diagnostic
}

// Reflector reflects document sites. It may be reused across documents,
// as in watch mode; cached results are keyed by the document's named
// types as well as the site's type.
type Reflector struct {
	opts  Options
	cache *lru.Cache[string, entry]
	hits  atomic.Int64
}

// New creates a Reflector.
func New(opts Options) (*Reflector, error) {
	r := &Reflector{opts: opts}
	if opts.CacheSize > 0 {
		cache, err := lru.New[string, entry](opts.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("reflector: init cache: %w", err)
		}
		r.cache = cache
	}
	return r, nil
}

// CacheHits returns the number of sites answered from the cache.
func (r *Reflector) CacheHits() int64 {
	return r.hits.Load()
}

func (r *Reflector) concurrency() int {
	if r.opts.Concurrency > 0 {
		return r.opts.Concurrency
	}
	return runtime.GOMAXPROCS(0)
}

func (r *Reflector) log(ctx context.Context) logger.Logger {
	if r.opts.Logger != nil {
		return r.opts.Logger
	}
	return logger.FromContext(ctx)
}

// Run reflects every site of doc, reporting non-fatal findings to diags
// (which may be nil). Results are in site order. The first failing site
// cancels the rest and its error is returned, prefixed with the site id.
func (r *Reflector) Run(ctx context.Context, doc *metadata.Document, diags *diagnostic.Collector) ([]codegen.SiteResult, error) {
	log := r.log(ctx)
	registry := doc.Registry()

	typesKey := ""
	if r.cache != nil {
		var err error
		if typesKey, err = buildcache.HashValue(doc.Types); err != nil {
			return nil, err
		}
	}

	results := make([]codegen.SiteResult, len(doc.Sites))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency())
	for i := range doc.Sites {
		site := &doc.Sites[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := r.reflectSite(log, registry, typesKey, site, diags)
			if err != nil {
				return fmt.Errorf("%s: %w", site.ID, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	log.Debug("reflected sites", "sites", len(results), "cache_hits", r.CacheHits())
	return results, nil
}

// Site reflects a single site against registry without caching.
func (r *Reflector) Site(registry *metadata.TypeRegistry, site *metadata.Site, diags *diagnostic.Collector) (codegen.SiteResult, error) {
	e, err := r.evaluate(registry, site)
	if err != nil {
		return codegen.SiteResult{}, err
	}
	replay(diags, e.diagnostics, site.ID)
	return result(site, e), nil
}

func (r *Reflector) reflectSite(log logger.Logger, registry *metadata.TypeRegistry, typesKey string, site *metadata.Site, diags *diagnostic.Collector) (codegen.SiteResult, error) {
	var key string
	if r.cache != nil {
		k, err := buildcache.HashValue(cacheKey{Types: typesKey, Op: site.Op, Type: &site.Type})
		if err != nil {
			return codegen.SiteResult{}, err
		}
		key = k
		if e, ok := r.cache.Get(key); ok {
			r.hits.Add(1)
			log.Debug("cache hit", "site", site.ID, "op", site.Op)
			replay(diags, e.diagnostics, site.ID)
			return result(site, e), nil
		}
	}

	log.Debug("reflecting site", "site", site.ID, "op", site.Op, "type", metadata.Describe(&site.Type))
	e, err := r.evaluate(registry, site)
	if err != nil {
		return codegen.SiteResult{}, err
	}
	if r.cache != nil {
		r.cache.Add(key, e)
	}
	replay(diags, e.diagnostics, site.ID)
	return result(site, e), nil
}

type cacheKey struct {
	Types string             `json:"types"`
	Op    metadata.Operation `json:"op"`
	Type  *metadata.Metadata `json:"type"`
}

// evaluate runs the analyzer for site, capturing its diagnostics.
func (r *Reflector) evaluate(registry *metadata.TypeRegistry, site *metadata.Site) (entry, error) {
	local := diagnostic.NewCollector(false, false)
	scope := analyzer.NewScope(registry, local).WithSite(site.ID)
	scope.Dominance = r.opts.Dominance
	if r.opts.MaxDepth > 0 {
		scope.MaxDepth = r.opts.MaxDepth
	}

	var e entry
	var err error
	switch site.Op {
	case metadata.OpProperties:
		e.properties, err = analyzer.ExtractProperties(&site.Type, scope)
	case metadata.OpValues:
		e.values, err = analyzer.EnumerateValues(&site.Type, scope)
	default:
		err = fmt.Errorf("unknown op %q", site.Op)
	}
	if err != nil {
		return entry{}, err
	}
	e.diagnostics = local.Diagnostics()
	return e, nil
}

// replay reports ds to diags as findings of site.
func replay(diags *diagnostic.Collector, ds []diagnostic.Diagnostic, site string) {
	for _, d := range ds {
		d.Site = site
		diags.Add(d)
	}
}

func result(site *metadata.Site, e entry) codegen.SiteResult {
	return codegen.SiteResult{
		ID:         site.ID,
		Op:         site.Op,
		Properties: e.properties,
		Values:     e.values,
	}
}

// Package assets resolves loosely specified media references (absolute paths,
// bare filenames, legacy thumbnail-cache names) to canonical output paths of the
// form /assets/<category>/<filename>, and records which media files have to be
// copied to produce them.
package assets

import (
	"fmt"
	"log/slog"
	"path"
	"sort"
	"strings"

	billy "github.com/go-git/go-billy/v5"
	lru "github.com/hashicorp/golang-lru/v2"

	"git.home.luguber.info/inful/dumpsite/internal/anomaly"
	"git.home.luguber.info/inful/dumpsite/internal/logfields"
)

// Strategy names the step of the fallback chain that produced a result.
type Strategy string

const (
	StrategyExternal    Strategy = "external"
	StrategyCacheHash   Strategy = "cache-hash"
	StrategyPassthrough Strategy = "passthrough"
	StrategyUploadDir   Strategy = "upload-dir"
	StrategyFuzzy       Strategy = "fuzzy"
	StrategyCacheScan   Strategy = "cache-scan"
	StrategyUnresolved  Strategy = "unresolved"
)

// Defaults for Options.
var (
	DefaultUploadDirs    = []string{"assets/images", "assets/files", "assets/uploads", "assets/media", "images", "uploads"}
	DefaultCacheSegments = []string{"legacy-cache", "phpthumbof/cache", "image-cache"}
	DefaultAssetRoots    = []string{"assets/"}
	DefaultCacheDirs     = []string{
		"assets/components/phpthumbof/cache", "assets/legacy-cache", "assets/image-cache",
		"legacy-cache", "image-cache",
	}
)

const defaultMemoSize = 4096

// Options tunes the resolver. Zero values select the defaults.
type Options struct {
	UploadDirs    []string
	CacheSegments []string
	CacheDirs     []string
	AssetRoots    []string
	MemoSize      int
}

func (o Options) withDefaults() Options {
	if len(o.UploadDirs) == 0 {
		o.UploadDirs = DefaultUploadDirs
	}
	if len(o.CacheSegments) == 0 {
		o.CacheSegments = DefaultCacheSegments
	}
	if len(o.CacheDirs) == 0 {
		o.CacheDirs = DefaultCacheDirs
	}
	if len(o.AssetRoots) == 0 {
		o.AssetRoots = DefaultAssetRoots
	}
	if o.MemoSize <= 0 {
		o.MemoSize = defaultMemoSize
	}
	return o
}

// Result is the outcome of resolving one reference.
type Result struct {
	// Path is the URL written to documents.
	Path string
	// Source is the media-relative file to copy, "" when nothing is copied.
	Source   string
	Strategy Strategy
}

// CopyRequest asks the media stage to copy Source to Target, both relative:
// Source to the media root, Target to the public output root.
type CopyRequest struct {
	Source string
	Target string
}

// Resolver runs the media fallback chain over a media filesystem. It is used by
// one run at a time.
type Resolver struct {
	fs     billy.Filesystem
	opts   Options
	memo   *lru.Cache[string, Result]
	idx    *index
	copies map[string]CopyRequest
	stats  map[Strategy]int
}

// NewResolver returns a Resolver over fs, which is rooted at the media directory.
func NewResolver(fs billy.Filesystem, opts Options) (*Resolver, error) {
	opts = opts.withDefaults()
	memo, err := lru.New[string, Result](opts.MemoSize)
	if err != nil {
		return nil, fmt.Errorf("asset memo: %w", err)
	}
	return &Resolver{
		fs:     fs,
		opts:   opts,
		memo:   memo,
		copies: make(map[string]CopyRequest),
		stats:  make(map[Strategy]int),
	}, nil
}

// Resolve returns the output URL for ref. Unresolvable references come back
// as a best-effort absolute path and record UNRESOLVED_ASSET on every call,
// memoized or not.
func (r *Resolver) Resolve(ref string, rec anomaly.Recorder) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	res, ok := r.memo.Get(ref)
	if !ok {
		res = r.Lookup(ref)
		r.memo.Add(ref, res)
		r.stats[res.Strategy]++
		slog.Debug("Asset resolved", logfields.Asset(ref), logfields.Strategy(string(res.Strategy)), logfields.Path(res.Path))
	}
	// Every occurrence is reported against the resource that references it.
	if res.Strategy == StrategyUnresolved {
		if rec == nil {
			rec = anomaly.Discard{}
		}
		rec.Record(anomaly.Entry{
			Code:    anomaly.CodeUnresolvedAsset,
			Kind:    "asset",
			Token:   ref,
			Message: "no media file matches reference",
		})
	}
	if res.Source != "" {
		target := strings.TrimPrefix(res.Path, "/")
		if _, seen := r.copies[target]; !seen {
			r.copies[target] = CopyRequest{Source: res.Source, Target: target}
		}
	}
	return res.Path
}

// Lookup runs the fallback chain without memoization or side effects.
func (r *Resolver) Lookup(ref string) Result {
	lower := strings.ToLower(ref)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") ||
		strings.HasPrefix(ref, "//") || strings.HasPrefix(lower, "data:") {
		return Result{Path: ref, Strategy: StrategyExternal}
	}
	rel := cleanRef(ref)

	if r.isCachePath(rel) {
		return r.fromCachePath(rel)
	}

	if strings.HasPrefix(ref, "/") || r.hasAssetRoot(rel) {
		res := Result{Path: "/" + rel, Strategy: StrategyPassthrough}
		if r.exists(rel) {
			res.Source = rel
		}
		return res
	}

	if res, ok := r.findByName(rel); ok {
		return res
	}
	return Result{Path: "/" + rel, Strategy: StrategyUnresolved}
}

// CopyRequests returns every copy recorded by Resolve, ordered by target.
func (r *Resolver) CopyRequests() []CopyRequest {
	out := make([]CopyRequest, 0, len(r.copies))
	for _, c := range r.copies {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Target < out[j].Target })
	return out
}

// Stats counts the distinct references resolved per strategy.
func (r *Resolver) Stats() map[Strategy]int {
	out := make(map[Strategy]int, len(r.stats))
	for k, v := range r.stats {
		out[k] = v
	}
	return out
}

// fromCachePath recovers the original name of a cache file and looks for it.
// A miss still yields the canonical path, never the cache path.
func (r *Resolver) fromCachePath(rel string) Result {
	base := path.Base(rel)
	original, ok := StripHash(base)
	if !ok {
		original = base
	}
	if res, found := r.findByName(original); found {
		return res
	}
	res := Result{Path: CanonicalPath(original), Strategy: StrategyCacheHash}
	if r.exists(rel) {
		res.Source = rel
	}
	return res
}

// findByName runs the exact upload-dir lookup, the fuzzy match and the cache scan.
func (r *Resolver) findByName(rel string) (Result, bool) {
	if strings.Contains(rel, "/") && r.exists(rel) {
		return Result{Path: CanonicalPath(rel), Source: rel, Strategy: StrategyUploadDir}, true
	}
	name := path.Base(rel)
	for _, dir := range r.opts.UploadDirs {
		candidate := path.Join(dir, name)
		if r.exists(candidate) {
			return Result{Path: CanonicalPath(name), Source: candidate, Strategy: StrategyUploadDir}, true
		}
	}

	idx := r.index()
	key := NormalizeName(name)
	if src, ok := idx.uploads[key]; ok {
		return Result{Path: CanonicalPath(path.Base(src)), Source: src, Strategy: StrategyFuzzy}, true
	}
	if src, ok := idx.cached[key]; ok {
		original, _ := StripHash(path.Base(src))
		return Result{Path: CanonicalPath(original), Source: src, Strategy: StrategyCacheScan}, true
	}
	return Result{}, false
}

func (r *Resolver) isCachePath(rel string) bool {
	for _, seg := range r.opts.CacheSegments {
		if strings.Contains(rel, seg+"/") {
			return true
		}
	}
	return false
}

func (r *Resolver) hasAssetRoot(rel string) bool {
	for _, root := range r.opts.AssetRoots {
		if strings.HasPrefix(rel, root) {
			return true
		}
	}
	return false
}

func (r *Resolver) exists(rel string) bool {
	fi, err := r.fs.Stat(rel)
	return err == nil && !fi.IsDir()
}

// cleanRef drops the query, fragment and leading slashes of a local reference.
func cleanRef(ref string) string {
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		ref = ref[:i]
	}
	return strings.TrimLeft(path.Clean("/"+ref), "/")
}

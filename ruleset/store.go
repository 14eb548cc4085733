package ruleset

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/NoliDD/assessment-tool/measure"
	"github.com/NoliDD/assessment-tool/pkg/logger"
	"github.com/NoliDD/assessment-tool/pkg/metrics"
)

// Store resolves effective rule sets per vertical, caching resolutions
// until the document is replaced. Safe for concurrent use. Stores are
// passed through call paths explicitly; there is no package-level instance.
type Store struct {
	mu    sync.RWMutex
	doc   *Document
	cache map[string]*ResolvedRuleSet
	log   logger.Logger
}

// ResolvedRuleSet is the effective ordered rule list for one vertical.
// Rules is shared with the resolution cache and is read-only by contract.
type ResolvedRuleSet struct {
	Vertical string
	Rules    []Rule
}

// NewStore wraps a validated document.
func NewStore(doc *Document, opts ...Option) *Store {
	cfg := newOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if doc == nil {
		doc, _ = NewDocument(nil)
	}
	metrics.UpdateRuleCount(doc.RuleCount())
	return &Store{
		doc:   doc,
		cache: make(map[string]*ResolvedRuleSet),
		log:   cfg.log,
	}
}

// Resolve returns the effective rules for a vertical. A vertical rule
// replaces the baseline rule for the same attribute wholesale; baseline
// attributes keep their declaration order and override-only attributes
// append in override order. Verticals without overrides resolve to the
// baseline; with no baseline in the document either, ErrUnknownVertical.
func (s *Store) Resolve(ctx context.Context, vertical string) (*ResolvedRuleSet, error) {
	key := normalizeVertical(vertical)

	s.mu.RLock()
	if rs, ok := s.cache[key]; ok {
		s.mu.RUnlock()
		metrics.RecordResolution(metrics.ResolveCacheHit)
		return rs, nil
	}
	doc := s.doc
	s.mu.RUnlock()

	rs, err := resolve(doc, key, vertical)
	if err != nil {
		metrics.RecordResolution(metrics.ResolveUnknownVertical)
		return nil, err
	}

	s.mu.Lock()
	// Never cache a resolution computed against a replaced document.
	if s.doc == doc {
		s.cache[key] = rs
	}
	s.mu.Unlock()

	metrics.RecordResolution(metrics.ResolveComputed)
	s.log.Debug(ctx, "resolved vertical",
		logger.String("vertical", rs.Vertical),
		logger.Int("rules", len(rs.Rules)))
	return rs, nil
}

// Replace swaps in a new document and drops all cached resolutions.
func (s *Store) Replace(doc *Document) {
	if doc == nil {
		return
	}
	s.mu.Lock()
	s.doc = doc
	s.cache = make(map[string]*ResolvedRuleSet)
	s.mu.Unlock()
	metrics.UpdateRuleCount(doc.RuleCount())
}

// Verticals lists the active document's vertical names.
func (s *Store) Verticals() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Verticals()
}

func resolve(doc *Document, key, requested string) (*ResolvedRuleSet, error) {
	baseKey := normalizeVertical(VerticalAll)
	base, hasBase := doc.rulesFor(baseKey)

	var over []Rule
	var hasOver bool
	if key != baseKey {
		over, hasOver = doc.rulesFor(key)
	}

	if !hasBase && !hasOver {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVertical, requested)
	}

	overByAttr := make(map[string]Rule, len(over))
	for _, r := range over {
		overByAttr[measure.NormalizeKey(r.Attribute)] = r
	}

	merged := make([]Rule, 0, len(base)+len(over))
	replaced := make(map[string]bool, len(over))
	for _, r := range base {
		akey := measure.NormalizeKey(r.Attribute)
		if o, ok := overByAttr[akey]; ok {
			merged = append(merged, o)
			replaced[akey] = true
			continue
		}
		merged = append(merged, r)
	}
	for _, o := range over {
		if !replaced[measure.NormalizeKey(o.Attribute)] {
			merged = append(merged, o)
		}
	}

	return &ResolvedRuleSet{Vertical: displayName(doc, key, requested), Rules: merged}, nil
}

func displayName(doc *Document, key, requested string) string {
	if d, ok := doc.displayFor(key); ok {
		return d
	}
	if key == normalizeVertical(VerticalAll) {
		return VerticalAll
	}
	if trimmed := strings.TrimSpace(requested); trimmed != "" {
		return trimmed
	}
	return VerticalAll
}

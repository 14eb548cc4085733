package measure

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/NoliDD/assessment-tool/pkg/logger"
	"github.com/NoliDD/assessment-tool/pkg/metrics"
)

// Feed is one catalog's measurement set, keyed by normalized attribute
// name. Each attribute appears at most once.
type Feed struct {
	byAttr map[string]Measurement
}

// NewFeed builds a feed from measurements already in hand. When an
// attribute repeats, the first record wins.
func NewFeed(measurements ...Measurement) *Feed {
	f := &Feed{byAttr: make(map[string]Measurement, len(measurements))}
	for _, m := range measurements {
		key := NormalizeKey(m.Attribute)
		if key == "" {
			continue
		}
		if _, ok := f.byAttr[key]; ok {
			continue
		}
		f.byAttr[key] = m
	}
	return f
}

// DecodeFeed reads a JSON array of measurements. Duplicate attribute
// records keep the first occurrence and are counted and logged; strict
// mode turns them into an error instead.
func DecodeFeed(r io.Reader, opts ...Option) (*Feed, error) {
	cfg := decodeOptions{log: logger.Named("feed")}
	for _, opt := range opts {
		opt(&cfg)
	}

	var records []Measurement
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFeedDecode, err)
	}

	f := &Feed{byAttr: make(map[string]Measurement, len(records))}
	for i, m := range records {
		key := NormalizeKey(m.Attribute)
		if key == "" {
			return nil, fmt.Errorf("%w: record %d has no attribute name", ErrFeedDecode, i)
		}
		if _, ok := f.byAttr[key]; ok {
			if cfg.strictDuplicates {
				return nil, fmt.Errorf("%w: %q", ErrDuplicateMeasurement, m.Attribute)
			}
			metrics.RecordDuplicateMeasurement()
			cfg.log.Warn(context.Background(), "dropping duplicate measurement",
				logger.String("attribute", m.Attribute),
				logger.Int("record", i))
			continue
		}
		f.byAttr[key] = m
	}
	return f, nil
}

// Get returns the measurement for an attribute, matched under key
// normalization.
func (f *Feed) Get(attribute string) (Measurement, bool) {
	if f == nil {
		return Measurement{}, false
	}
	m, ok := f.byAttr[NormalizeKey(attribute)]
	return m, ok
}

// Len returns the number of distinct measured attributes.
func (f *Feed) Len() int {
	if f == nil {
		return 0
	}
	return len(f.byAttr)
}

// Attributes returns the measured attribute names as recorded, sorted.
func (f *Feed) Attributes() []string {
	if f == nil || len(f.byAttr) == 0 {
		return nil
	}
	names := make([]string, 0, len(f.byAttr))
	for _, m := range f.byAttr {
		names = append(names, m.Attribute)
	}
	sort.Strings(names)
	return names
}

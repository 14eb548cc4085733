package ruleset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	kjson "github.com/knadh/koanf/parsers/json"
	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/NoliDD/assessment-tool/measure"
	"github.com/NoliDD/assessment-tool/pkg/metrics"
	"github.com/NoliDD/assessment-tool/predicate"
)

// Wire form of a rule document.
type docFile struct {
	Predicates map[string]docPredicate `koanf:"predicates"`
	Verticals  map[string][]docRule    `koanf:"verticals"`
}

type docPredicate struct {
	AnyFlags []string `koanf:"any_flags"`
	AllFlags []string `koanf:"all_flags"`
	Expr     string   `koanf:"expr"`
}

type docRule struct {
	Attribute string `koanf:"attribute"`
	Required  bool   `koanf:"required"`
	// Threshold accepts the same forms as coverage cells: 0.8, 80, "80%".
	CoverageThreshold any            `koanf:"coverage_threshold"`
	Conditions        []docCondition `koanf:"conditions"`
	UnusableTriggers  []string       `koanf:"unusable_triggers"`
}

type docCondition struct {
	Predicate string `koanf:"predicate"`
	Reason    string `koanf:"reason"`
}

// Load reads a rule document from disk, picking the parser by extension:
// .yaml/.yml, .json, or .csv for the legacy spreadsheet export.
func Load(path string, opts ...Option) (*Document, error) {
	cfg := newOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	doc, err := load(path, cfg)
	if err != nil {
		metrics.RecordRuleLoadError()
		return nil, err
	}
	metrics.RecordRuleLoad()
	return doc, nil
}

func load(path string, cfg options) (*Document, error) {
	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = kyaml.Parser()
	case ".json":
		parser = kjson.Parser()
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrRuleLoad, err)
		}
		defer func() { _ = f.Close() }()
		return parseCSV(f, cfg)
	default:
		return nil, fmt.Errorf("%w: unsupported rule document %q", ErrRuleLoad, path)
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRuleLoad, err)
	}

	var raw docFile
	if err := k.UnmarshalWithConf("", &raw, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRuleLoad, err)
	}

	return buildDocument(raw, cfg.registry)
}

// buildDocument binds the wire form to domain rules against a clone of the
// registry extended with the document's own predicates.
func buildDocument(raw docFile, base *predicate.Registry) (*Document, error) {
	reg := base.Clone()
	var issues []error

	names := make([]string, 0, len(raw.Predicates))
	for name := range raw.Predicates {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		p, err := raw.Predicates[name].build(name)
		if err != nil {
			issues = append(issues, err)
			continue
		}
		if err := reg.Register(p); err != nil {
			issues = append(issues, err)
		}
	}

	verticals := make(map[string][]Rule, len(raw.Verticals))
	for vname, docRules := range raw.Verticals {
		rules := make([]Rule, 0, len(docRules))
		for _, dr := range docRules {
			r, errs := dr.build(reg, vname)
			if len(errs) > 0 {
				issues = append(issues, errs...)
				continue
			}
			rules = append(rules, r)
		}
		verticals[vname] = rules
	}

	if len(issues) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrRuleLoad, errors.Join(issues...))
	}
	return NewDocument(verticals)
}

func (dp docPredicate) build(name string) (predicate.Predicate, error) {
	defined := 0
	if len(dp.AnyFlags) > 0 {
		defined++
	}
	if len(dp.AllFlags) > 0 {
		defined++
	}
	if strings.TrimSpace(dp.Expr) != "" {
		defined++
	}
	if defined != 1 {
		return nil, fmt.Errorf("predicate %q must define exactly one of any_flags, all_flags, expr", name)
	}

	switch {
	case len(dp.AnyFlags) > 0:
		return predicate.FlagAny(name, dp.AnyFlags...), nil
	case len(dp.AllFlags) > 0:
		return predicate.FlagAll(name, dp.AllFlags...), nil
	default:
		return predicate.Expr(name, dp.Expr)
	}
}

func (dr docRule) build(reg *predicate.Registry, vertical string) (Rule, []error) {
	var errs []error

	thr, err := thresholdFrom(dr.CoverageThreshold)
	if err != nil {
		errs = append(errs, fmt.Errorf("vertical %q: attribute %q: %w", vertical, dr.Attribute, err))
	}

	conditions := make([]Condition, 0, len(dr.Conditions))
	for _, dc := range dr.Conditions {
		p, ok := reg.Lookup(dc.Predicate)
		if !ok {
			errs = append(errs, fmt.Errorf("vertical %q: attribute %q: %w: %q (known: %s)",
				vertical, dr.Attribute, predicate.ErrUnknownPredicate, dc.Predicate, strings.Join(reg.Names(), ", ")))
			continue
		}
		conditions = append(conditions, Condition{Predicate: p, Reason: dc.Reason})
	}

	if len(errs) > 0 {
		return Rule{}, errs
	}
	return Rule{
		Attribute:         dr.Attribute,
		Required:          dr.Required,
		CoverageThreshold: thr,
		Conditions:        conditions,
		UnusableTriggers:  measure.NewFlagSet(dr.UnusableTriggers...),
	}, nil
}

func thresholdFrom(v any) (*float64, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case float64:
		c, err := measure.NormalizeCoverage(t)
		if err != nil {
			return nil, err
		}
		f := float64(c)
		return &f, nil
	case int:
		c, err := measure.NormalizeCoverage(float64(t))
		if err != nil {
			return nil, err
		}
		f := float64(c)
		return &f, nil
	case string:
		if strings.TrimSpace(t) == "" {
			return nil, nil
		}
		c, err := measure.ParseCoverage(t)
		if err != nil {
			return nil, err
		}
		f := float64(c)
		return &f, nil
	default:
		return nil, fmt.Errorf("%w: %v", measure.ErrBadCoverage, v)
	}
}

// ParseCSV reads the legacy spreadsheet export of coverage rules: one row
// per attribute with vertical, requirement, and ideal-coverage columns.
// Headers are matched loosely so renamed sheets keep working. CSV rules
// carry no qualitative conditions or unusable triggers.
func ParseCSV(r io.Reader, opts ...Option) (*Document, error) {
	cfg := newOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	return parseCSV(r, cfg)
}

func parseCSV(r io.Reader, _ options) (*Document, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // ragged sheets happen
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRuleLoad, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty csv document", ErrRuleLoad)
	}

	cols := detectColumns(rows[0])
	if cols.attribute < 0 {
		return nil, fmt.Errorf("%w: no attribute column in header %v", ErrRuleLoad, rows[0])
	}

	var issues []error
	grouped := make(map[string][]Rule)
	displays := make(map[string]string)

	for n, row := range rows[1:] {
		attr := strings.TrimSpace(cell(row, cols.attribute))
		if attr == "" {
			continue
		}

		vert := strings.TrimSpace(cell(row, cols.vertical))
		key := normalizeVertical(vert)
		if _, ok := displays[key]; !ok {
			if key == normalizeVertical(VerticalAll) {
				displays[key] = VerticalAll
			} else {
				displays[key] = vert
			}
		}

		var thr *float64
		if raw := strings.TrimSpace(cell(row, cols.coverage)); raw != "" {
			c, err := measure.ParseCoverage(raw)
			if err != nil {
				issues = append(issues, fmt.Errorf("row %d: attribute %q: %w", n+2, attr, err))
				continue
			}
			f := float64(c)
			thr = &f
		}

		grouped[key] = append(grouped[key], Rule{
			Attribute:         attr,
			Required:          parseRequirement(cell(row, cols.requirement)),
			CoverageThreshold: thr,
		})
	}

	if len(issues) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrRuleLoad, errors.Join(issues...))
	}

	verticals := make(map[string][]Rule, len(grouped))
	for key, rules := range grouped {
		verticals[displays[key]] = rules
	}
	return NewDocument(verticals)
}

type columns struct {
	attribute   int
	vertical    int
	requirement int
	coverage    int
}

var headerCleaner = strings.NewReplacer("_", " ", "-", " ", "%", " ")

func detectColumns(header []string) columns {
	c := columns{attribute: -1, vertical: -1, requirement: -1, coverage: -1}
	for i, h := range header {
		n := measure.NormalizeKey(headerCleaner.Replace(h))
		switch {
		case c.attribute < 0 && strings.Contains(n, "attribute") && !strings.Contains(n, "coverage"):
			c.attribute = i
		case c.vertical < 0 && strings.Contains(n, "vertical"):
			c.vertical = i
		case c.requirement < 0 && (strings.Contains(n, "require") || strings.Contains(n, "nice")):
			c.requirement = i
		case c.coverage < 0 && strings.Contains(n, "coverage"):
			c.coverage = i
		}
	}
	return c
}

// parseRequirement reads a requirement cell. Blank and unrecognized cells
// default to required, matching how the source sheets were filled in.
func parseRequirement(s string) bool {
	norm := measure.NormalizeKey(s)
	switch {
	case strings.Contains(norm, "nice"), strings.Contains(norm, "optional"):
		return false
	default:
		return true
	}
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

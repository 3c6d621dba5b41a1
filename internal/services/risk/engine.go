package risk

import (
	"FinRisk/internal/domain/models"
	"FinRisk/pkg/format"
)

// Option configures an Engine.
type Option func(*Engine)

// WithZeroDivisorVerdict sets the verdict for ratio rules whose divisor is zero.
// Invalid verdicts are ignored.
func WithZeroDivisorVerdict(v Verdict) Option {
	return func(e *Engine) {
		if v.Valid() {
			e.zeroDivisor = v
		}
	}
}

// Engine screens a financial series against the rule catalog.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	rules       []Rule
	checks      map[int]Predicate
	zeroDivisor Verdict
}

// NewEngine creates an engine over the embedded catalog.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		rules:       defaultCatalog,
		checks:      predicates,
		zeroDivisor: Unknown,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Rules returns a copy of the catalog in evaluation order.
func (e *Engine) Rules() []Rule {
	out := make([]Rule, len(e.rules))
	copy(out, e.rules)
	return out
}

// ZeroDivisorVerdict reports the configured zero-divisor policy.
func (e *Engine) ZeroDivisorVerdict() Verdict { return e.zeroDivisor }

// Evaluate returns one finding per catalog rule in catalog order.
// When the evaluation year is absent every finding is Unknown.
func (e *Engine) Evaluate(series models.FinancialSeries, year int) []Finding {
	findings := make([]Finding, len(e.rules))

	w := newWindow(series, year, e.zeroDivisor)
	if w.Current() == nil {
		for i, r := range e.rules {
			findings[i] = newFinding(r, Unknown)
		}
		return findings
	}

	for i, r := range e.rules {
		v := Unknown
		if check, ok := e.checks[r.ID]; ok {
			v = check(w)
		}
		findings[i] = newFinding(r, v)
	}
	return findings
}

func newFinding(r Rule, v Verdict) Finding {
	return Finding{Rule: r, Verdict: v, Label: format.VerdictLabel(string(v))}
}

// Report evaluates and groups the findings for presentation.
func (e *Engine) Report(series models.FinancialSeries, year int) Report {
	w := newWindow(series, year, e.zeroDivisor)
	r := Sections(e.Evaluate(series, year))
	r.Year = year
	r.HasCurrent = w.Back(0) != nil
	r.HasPrevious = w.Back(1) != nil
	r.HasTwoBack = w.Back(2) != nil
	return r
}

// Sections groups findings by rule group, keeping catalog order inside each group.
func Sections(findings []Finding) Report {
	var r Report
	byGroup := make(map[Group]*Section, len(Groups))
	for _, g := range Groups {
		r.Sections = append(r.Sections, Section{Group: g, Title: g.Title()})
	}
	for i := range r.Sections {
		byGroup[r.Sections[i].Group] = &r.Sections[i]
	}

	for _, f := range findings {
		s, ok := byGroup[f.Group]
		if !ok {
			continue
		}
		s.Findings = append(s.Findings, f)
		s.Count++

		switch f.Verdict {
		case Risk:
			r.Summary.Risk++
		case Warning:
			r.Summary.Warning++
		case Safe:
			r.Summary.Safe++
		default:
			r.Summary.Unknown++
		}
		if !f.Quantified {
			r.Summary.NotQuantified++
		}
	}
	return r
}

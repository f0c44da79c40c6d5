package rubric

import (
	"math"
	"strings"

	"github.com/Jegama/cp-multilingual-qa-lab/pkg/utils"
)

const (
	minScore = 1
	maxScore = 5

	reasonSeparator   = " | "
	ReasonEmptyAnswer = "Empty answer"
)

// Enforcer turns raw judge scores into scores that satisfy the rubric's hard
// constraints. Normalize is pure, so one Enforcer can be shared freely.
type Enforcer struct {
	policy *Policy
}

func NewEnforcer(policy *Policy) *Enforcer {
	if policy == nil {
		policy = DefaultPolicy()
	}
	return &Enforcer{policy: policy}
}

func (e *Enforcer) Policy() *Policy {
	return e.policy
}

// Normalize runs the fixed two-pass pipeline: range clamp, purity cap,
// overall clamp, knockouts, boldness adjustment, overall re-clamp. An empty
// answer stops the pipeline after the knockout step.
func (e *Enforcer) Normalize(raw Score, answer string) Score {
	s := raw

	s.clampRange()

	pct := PurityPct(answer, e.policy.Script)
	s.capPurity(pct)

	s.clampOveralls()

	if strings.TrimSpace(answer) == "" {
		s.knockOutEmpty()
		return s
	}
	s.applyKnockouts()

	e.adjustBoldness(&s, answer)

	s.clampOveralls()
	return s
}

func (s *Score) clampRange() {
	for _, sec := range s.sections() {
		for _, f := range sec.components {
			*f.v = clamp(*f.v, minScore, maxScore)
		}
		*sec.overall = clamp(*sec.overall, minScore, maxScore)
	}
}

func (s *Score) capPurity(pct float64) {
	a := &s.Arabic
	ceiling := PurityCeiling(pct)

	if a.ArabicPurity > ceiling {
		a.ArabicPurity = ceiling
		a.appendReason("Capped purity (heuristic " + utils.FormatDecimal(pct) + "%)")
	}
	if ceiling <= 2 {
		if a.GrammarAndSyntax > 3 {
			a.GrammarAndSyntax = 3
			a.appendReason("Grammar capped due to low purity")
		}
		if a.Overall > 3 {
			a.Overall = 3
			a.appendReason("Overall capped due to low purity")
		}
	}
	a.PurityPct = pct
}

// clampOveralls keeps every section Overall within one point of the
// half-to-even rounded mean of its component fields.
func (s *Score) clampOveralls() {
	for _, sec := range s.sections() {
		target := sec.target()
		*sec.overall = clamp(*sec.overall, target-1, target+1)
	}
}

func (sec section) target() int {
	sum := 0
	for _, f := range sec.components {
		sum += *f.v
	}
	return int(math.RoundToEven(float64(sum) / float64(len(sec.components))))
}

func (s *Score) knockOutEmpty() {
	for _, sec := range s.sections() {
		for _, f := range sec.components {
			*f.v = minScore
		}
		*sec.overall = minScore
	}
	s.Arabic.PenaltyReason = ReasonEmptyAnswer
}

func (s *Score) applyKnockouts() {
	if s.Adherence.Core <= 2 && s.Adherence.Overall > 3 {
		s.Adherence.Overall = 3
	}
	if s.Interfaith.RespectAndHandlingObjections <= 1 && s.Interfaith.Overall > 2 {
		s.Interfaith.Overall = 2
	}
	if s.Arabic.ArabicPurity <= 2 && s.Arabic.GrammarAndSyntax > 3 {
		s.Arabic.GrammarAndSyntax = 3
		s.Arabic.appendReason("Grammar capped due to low purity (knockout)")
	}
}

func (e *Enforcer) adjustBoldness(s *Score, answer string) {
	in := &s.Interfaith
	hedging := anyMatch(e.policy.Hedging, answer)
	assertive := anyMatch(e.policy.Assertive, answer)

	if hedging {
		if !assertive {
			in.GospelBoldness = min(in.GospelBoldness, 2)
			in.Evangelism = min(in.Evangelism, 3)
		}
		return
	}
	if !assertive {
		return
	}
	in.GospelBoldness = max(in.GospelBoldness, 4)
	if anyMatch(e.policy.Invitation, answer) {
		in.GospelBoldness = maxScore
	}
}

func (a *ArabicAccuracy) appendReason(reason string) {
	if a.PenaltyReason != "" {
		a.PenaltyReason += reasonSeparator
	}
	a.PenaltyReason += reason
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}

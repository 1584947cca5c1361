// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// Copyright 2026 go-tracecore authors.

package tracecore

import (
	"regexp"
	"sync"
	"time"

	"github.com/dd-trace-core/go-tracecore/tracecore/ext"
)

// RuleProvenance distinguishes where a SamplingRule came from, which in
// turn decides which SamplingMechanism a match is tagged with: a rule
// configured locally by the application is tagged differently from one
// pushed down by remote configuration.
type RuleProvenance int

const (
	// ProvenanceLocal means the rule was configured directly by the
	// application at startup.
	ProvenanceLocal RuleProvenance = iota
	// ProvenanceCustomer means the rule was supplied by the customer through
	// remote configuration, with explicit customer intent behind it.
	ProvenanceCustomer
	// ProvenanceRemoteDynamic means the rule was computed and pushed by
	// remote configuration without direct customer intent (e.g. an
	// automatically tuned rate).
	ProvenanceRemoteDynamic
)

// mechanism reports the SamplingMechanism a match against this rule should
// be tagged with, derived from its Provenance.
func (p RuleProvenance) mechanism() ext.SamplingMechanism {
	switch p {
	case ProvenanceCustomer:
		return ext.MechanismRemoteUserRate
	case ProvenanceRemoteDynamic:
		return ext.MechanismRemoteAutoRate
	default:
		return ext.MechanismRule
	}
}

// SamplingRule matches spans by glob pattern against service, operation
// name, resource, and tags, applying a fixed rate when matched.
type SamplingRule struct {
	Service  *regexp.Regexp
	Name     *regexp.Regexp
	Resource *regexp.Regexp
	Tags     map[string]*regexp.Regexp

	Rate         float64
	Provenance   RuleProvenance
	MaxPerSecond float64 // 0 means unlimited; SpanSampler only

	limiter *rateLimiter
}

// NewSamplingRule builds a locally-configured rule from glob patterns; an
// empty pattern for any field matches everything.
func NewSamplingRule(service, name, resource string, tags map[string]string, rate float64) *SamplingRule {
	return NewRemoteSamplingRule(service, name, resource, tags, rate, ProvenanceLocal)
}

// NewRemoteSamplingRule builds a rule with an explicit Provenance, for rules
// that arrived through remote configuration rather than local setup.
func NewRemoteSamplingRule(service, name, resource string, tags map[string]string, rate float64, provenance RuleProvenance) *SamplingRule {
	globTags := make(map[string]*regexp.Regexp, len(tags))
	for k, v := range tags {
		globTags[k] = globMatch(v)
	}
	return &SamplingRule{
		Service:    globMatch(service),
		Name:       globMatch(name),
		Resource:   globMatch(resource),
		Tags:       globTags,
		Rate:       rate,
		Provenance: provenance,
	}
}

func (r *SamplingRule) match(sd *SpanData) bool {
	if !globMatches(r.Service, sd.Service) {
		return false
	}
	if !globMatches(r.Name, sd.Name) {
		return false
	}
	if !globMatches(r.Resource, sd.Resource) {
		return false
	}
	for k, re := range r.Tags {
		v, ok := sd.Tags[k]
		if !ok || !globMatches(re, v) {
			return false
		}
	}
	return true
}

// TraceSampler computes the trace-level sampling decision: the first
// matching rule, then the collector-fed agent-rate table, then a
// process-wide default rate. Manual overrides are held by TraceSegment; a
// segment that already has a decision never calls Decide.
type TraceSampler struct {
	mu          sync.RWMutex
	rules       []*SamplingRule
	limiter     *rateLimiter
	agentRates  map[ServiceEnv]float64
	defaultRate float64
}

// NewTraceSampler builds a TraceSampler with the given rules, an overall
// rate-limiter ceiling (traces per second), and a fallback default rate
// used when no rule or agent rate applies.
func NewTraceSampler(rules []*SamplingRule, ratePerSecond, defaultRate float64) *TraceSampler {
	return &TraceSampler{
		rules:       rules,
		limiter:     newRateLimiter(ratePerSecond),
		agentRates:  make(map[ServiceEnv]float64),
		defaultRate: defaultRate,
	}
}

// Decide implements the finalization-time sampling decision.
func (s *TraceSampler) Decide(root *SpanData) SamplingDecision {
	s.mu.RLock()
	rules := s.rules
	s.mu.RUnlock()

	for _, rule := range rules {
		if !rule.match(root) {
			continue
		}
		return s.decideByRule(root.TraceID.Low, rule.Rate, rule.Provenance.mechanism())
	}

	if rate, ok := s.agentRate(root); ok {
		return decideByPlainRate(root.TraceID.Low, rate, ext.MechanismAgentRate)
	}

	return decideByPlainRate(root.TraceID.Low, s.defaultRate, ext.MechanismDefault)
}

// decideByRule implements step 2: hash-sample at the rule's rate, and on a
// keep additionally consult the overall trace rate limiter.
func (s *TraceSampler) decideByRule(id uint64, rate float64, mechanism ext.SamplingMechanism) SamplingDecision {
	dec := SamplingDecision{Mechanism: mechanism, Origin: ext.OriginLocal, ConfiguredRate: &rate}
	if !sampledByRate(id, rate) {
		dec.Priority = ext.PriorityAutoDrop
		return dec
	}
	sampled, effectiveRate := s.limiter.allowOne(time.Now())
	dec.LimiterEffectiveRate = &effectiveRate
	maxPerSecond := s.limiter.maxPerSecond()
	dec.LimiterMaxPerSecond = &maxPerSecond
	if sampled {
		dec.Priority = ext.PriorityAutoKeep
	} else {
		dec.Priority = ext.PriorityAutoDrop
	}
	return dec
}

// decideByPlainRate implements steps 3/4: hash-sample at rate with no
// rate-limiter involvement.
func decideByPlainRate(id uint64, rate float64, mechanism ext.SamplingMechanism) SamplingDecision {
	dec := SamplingDecision{Mechanism: mechanism, Origin: ext.OriginLocal, ConfiguredRate: &rate}
	if sampledByRate(id, rate) {
		dec.Priority = ext.PriorityAutoKeep
	} else {
		dec.Priority = ext.PriorityAutoDrop
	}
	return dec
}

func (s *TraceSampler) agentRate(root *SpanData) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rate, ok := s.agentRates[ServiceEnv{Service: root.Service, Env: root.Tags["env"]}]
	return rate, ok
}

// UpdateAgentRates installs a fresh (service, env) -> rate table, replacing
// whatever a previous collector response provided.
func (s *TraceSampler) UpdateAgentRates(rates map[ServiceEnv]float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.agentRates = rates
}

// SpanSampler rescues individual spans from an otherwise dropped trace. It
// is consulted only once TraceSampler has decided to drop.
type SpanSampler struct {
	mu    sync.RWMutex
	rules []*SamplingRule
}

// NewSpanSampler builds a SpanSampler over the given rules. Each rule whose
// MaxPerSecond is non-zero gets its own limiter; others are unlimited.
func NewSpanSampler(rules []*SamplingRule) *SpanSampler {
	for _, r := range rules {
		if r.MaxPerSecond > 0 {
			r.limiter = newRateLimiter(r.MaxPerSecond)
		} else {
			r.limiter = unlimitedRateLimiter()
		}
	}
	return &SpanSampler{rules: rules}
}

// Sample attempts to rescue sd. On success it tags sd with the span-sampling
// mechanism, rule rate, and (if configured) the max-per-second ceiling, and
// returns true.
func (s *SpanSampler) Sample(sd *SpanData) bool {
	s.mu.RLock()
	rules := s.rules
	s.mu.RUnlock()

	for _, rule := range rules {
		if !rule.match(sd) {
			continue
		}
		if !sampledByRate(uint64(sd.SpanID), rule.Rate) {
			return false
		}
		sampled, _ := rule.limiter.allowOne(time.Now())
		if !sampled {
			return false
		}
		sd.setInternalMetric(tagSpanSamplingMech, float64(ext.MechanismSpanRule))
		sd.setInternalMetric(tagSpanSamplingRate, rule.Rate)
		if rule.MaxPerSecond > 0 {
			sd.setInternalMetric(tagSpanSamplingMPS, rule.MaxPerSecond)
		}
		return true
	}
	return false
}

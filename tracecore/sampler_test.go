// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// Copyright 2026 go-tracecore authors.

package tracecore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd-trace-core/go-tracecore/tracecore/ext"
)

func spanWithService(service string) *SpanData {
	return &SpanData{TraceID: TraceID{Low: 1}, Service: service, Tags: map[string]string{}, NumericTags: map[string]float64{}}
}

func TestTraceSamplerRuleMatchUsesRuleMechanism(t *testing.T) {
	rule := NewSamplingRule("checkout", "", "", nil, 1)
	s := NewTraceSampler([]*SamplingRule{rule}, 100, 1)
	dec := s.Decide(spanWithService("checkout"))
	assert.Equal(t, ext.MechanismRule, dec.Mechanism)
	assert.True(t, dec.Keep())
	require.NotNil(t, dec.LimiterEffectiveRate)
}

func TestTraceSamplerRuleDropSkipsLimiter(t *testing.T) {
	rule := NewSamplingRule("checkout", "", "", nil, 0)
	s := NewTraceSampler([]*SamplingRule{rule}, 100, 1)
	dec := s.Decide(spanWithService("checkout"))
	assert.False(t, dec.Keep())
	assert.Nil(t, dec.LimiterEffectiveRate)
}

func TestTraceSamplerCustomerProvenanceUsesRemoteUserRateMechanism(t *testing.T) {
	rule := NewRemoteSamplingRule("checkout", "", "", nil, 1, ProvenanceCustomer)
	s := NewTraceSampler([]*SamplingRule{rule}, 100, 1)
	dec := s.Decide(spanWithService("checkout"))
	assert.Equal(t, ext.MechanismRemoteUserRate, dec.Mechanism)
}

func TestTraceSamplerRemoteDynamicProvenanceUsesRemoteAutoRateMechanism(t *testing.T) {
	rule := NewRemoteSamplingRule("checkout", "", "", nil, 1, ProvenanceRemoteDynamic)
	s := NewTraceSampler([]*SamplingRule{rule}, 100, 1)
	dec := s.Decide(spanWithService("checkout"))
	assert.Equal(t, ext.MechanismRemoteAutoRate, dec.Mechanism)
}

func TestTraceSamplerAgentRateUsedWhenNoRuleMatches(t *testing.T) {
	s := NewTraceSampler(nil, 100, 1)
	s.UpdateAgentRates(map[ServiceEnv]float64{{Service: "checkout"}: 1})
	dec := s.Decide(spanWithService("checkout"))
	assert.Equal(t, ext.MechanismAgentRate, dec.Mechanism)
	assert.True(t, dec.Keep())
	assert.Nil(t, dec.LimiterEffectiveRate)
}

func TestTraceSamplerDefaultRateWhenNothingElseApplies(t *testing.T) {
	s := NewTraceSampler(nil, 100, 1)
	dec := s.Decide(spanWithService("checkout"))
	assert.Equal(t, ext.MechanismDefault, dec.Mechanism)
	assert.True(t, dec.Keep())
}

func TestTraceSamplerDefaultRateZeroDrops(t *testing.T) {
	s := NewTraceSampler(nil, 100, 0)
	dec := s.Decide(spanWithService("checkout"))
	assert.False(t, dec.Keep())
}

func TestSpanSamplerRescuesMatchingSpan(t *testing.T) {
	rule := NewSamplingRule("checkout", "", "", nil, 1)
	ss := NewSpanSampler([]*SamplingRule{rule})
	sd := spanWithService("checkout")
	sd.SpanID = 42
	ok := ss.Sample(sd)
	assert.True(t, ok)
	assert.Equal(t, float64(ext.MechanismSpanRule), sd.NumericTags[tagSpanSamplingMech])
}

func TestSpanSamplerNoMatchReturnsFalse(t *testing.T) {
	rule := NewSamplingRule("other-service", "", "", nil, 1)
	ss := NewSpanSampler([]*SamplingRule{rule})
	sd := spanWithService("checkout")
	assert.False(t, ss.Sample(sd))
}

func TestSpanSamplerTagsMaxPerSecondWhenConfigured(t *testing.T) {
	rule := NewSamplingRule("checkout", "", "", nil, 1)
	rule.MaxPerSecond = 10
	ss := NewSpanSampler([]*SamplingRule{rule})
	sd := spanWithService("checkout")
	require.True(t, ss.Sample(sd))
	assert.Equal(t, float64(10), sd.NumericTags[tagSpanSamplingMPS])
}

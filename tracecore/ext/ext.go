// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// Copyright 2026 go-tracecore authors.

// Package ext holds constants shared across the tracing core: sampling
// priority buckets and sampling mechanism tags.
package ext

// SamplingPriority values classify a trace's keep/drop decision. Values
// less than or equal to zero mean drop; values greater than zero mean keep.
const (
	// PriorityUserDrop means the user asked, through a manual override, for
	// this trace to be dropped.
	PriorityUserDrop = -1

	// PriorityAutoDrop means the core decided, without user input, to drop
	// this trace.
	PriorityAutoDrop = 0

	// PriorityAutoKeep means the core decided, without user input, to keep
	// this trace.
	PriorityAutoKeep = 1

	// PriorityUserKeep means the user asked, through a manual override, for
	// this trace to be kept.
	PriorityUserKeep = 2
)

// SamplingMechanism identifies which rule or feedback source produced a
// sampling decision. It is recorded on the trace as the `_dd.p.dm` tag
// (formatted as "-" + mechanism) whenever the decision's priority is kept.
type SamplingMechanism int

const (
	// MechanismDefault is used when no rule, rate, or manual override applied.
	MechanismDefault SamplingMechanism = 0
	// MechanismAgentRate is used when the decision came from the
	// collector-fed (service, env) rate table.
	MechanismAgentRate SamplingMechanism = 1
	// MechanismRemoteAutoRate is used when a remotely configured rate
	// applied without user involvement.
	MechanismRemoteAutoRate SamplingMechanism = 2
	// MechanismRule is used when a locally configured sampling rule matched.
	MechanismRule SamplingMechanism = 3
	// MechanismManual is used when the application set the priority
	// directly, overriding any rule or rate.
	MechanismManual SamplingMechanism = 4
	// MechanismAppDecision is used when the application layer (outside the
	// core) supplied the decision.
	MechanismAppDecision SamplingMechanism = 5
	// MechanismRemoteUserRate is used when a user-provisioned remote
	// configuration rule matched.
	MechanismRemoteUserRate SamplingMechanism = 6
	// MechanismSpanRule is used when a span-scoped sampling rule rescued an
	// individual span from an otherwise dropped trace.
	MechanismSpanRule SamplingMechanism = 8
)

// String renders the mechanism the way it appears inside the `_dd.p.dm` tag
// value, i.e. the bare decimal digits without a sign.
func (m SamplingMechanism) String() string {
	switch m {
	case MechanismDefault:
		return "0"
	case MechanismAgentRate:
		return "1"
	case MechanismRemoteAutoRate:
		return "2"
	case MechanismRule:
		return "3"
	case MechanismManual:
		return "4"
	case MechanismAppDecision:
		return "5"
	case MechanismRemoteUserRate:
		return "6"
	case MechanismSpanRule:
		return "8"
	default:
		return "0"
	}
}

// DecisionMakerTag renders the value of the `_dd.p.dm` propagating tag for
// this mechanism: "-" + mechanism.
func (m SamplingMechanism) DecisionMakerTag() string {
	return "-" + m.String()
}

// DecisionOrigin distinguishes a sampling decision made locally from one
// that arrived already attached to an extracted context.
type DecisionOrigin int

const (
	// OriginLocal means the decision was computed in this process.
	OriginLocal DecisionOrigin = iota
	// OriginExtracted means the decision was carried in from an inbound
	// propagation context.
	OriginExtracted
)

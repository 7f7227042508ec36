// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// =============================================================================
// OPERATION STATUS
// =============================================================================

// State is the lifecycle position of one orchestrator.
type State int

const (
	StateIdle     State = iota // ready to accept a submission
	StateInFlight              // a remote call is outstanding
	StateFailed                // the last call failed; ready for a retry
)

// String returns the name of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInFlight:
		return "in_flight"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// OperationStatus is the tri-state status reported by an orchestrator.
// Message is only set for StateFailed.
type OperationStatus struct {
	State   State
	Message string
}

// Idle returns the idle status.
func Idle() OperationStatus {
	return OperationStatus{State: StateIdle}
}

// InFlight returns the in-flight status.
func InFlight() OperationStatus {
	return OperationStatus{State: StateInFlight}
}

// Failed returns a failed status carrying msg.
func Failed(msg string) OperationStatus {
	return OperationStatus{State: StateFailed, Message: msg}
}

// IsIdle reports whether the status is idle.
func (s OperationStatus) IsIdle() bool { return s.State == StateIdle }

// IsInFlight reports whether a call is outstanding.
func (s OperationStatus) IsInFlight() bool { return s.State == StateInFlight }

// IsFailed reports whether the last call failed.
func (s OperationStatus) IsFailed() bool { return s.State == StateFailed }

// String renders the status, e.g. "failed(index is empty)".
func (s OperationStatus) String() string {
	if s.State == StateFailed {
		return "failed(" + s.Message + ")"
	}
	return s.State.String()
}

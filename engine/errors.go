package engine

import "errors"

// Error kinds the core can recover from locally. None are fatal: every
// fault degrades the beacon to graceful silence until the next Start or
// Song Position Pointer re-synchronizes state.
var (
	// ErrTransportUnavailable is returned by an outbound send attempted
	// with no transport connected. The message is dropped; SyncEngine logs
	// and reports each such failed send and continues.
	ErrTransportUnavailable = errors.New("midisync: transport unavailable")

	// ErrInboundDecodeFailed marks a malformed or truncated inbound
	// message, returned by transport's decoder. A truncated message with
	// a recognizable status byte (e.g. SPP missing its LSB/MSB) still
	// reaches the engine as InboundUnknown; an empty message reaches
	// nothing and is only logged.
	ErrInboundDecodeFailed = errors.New("midisync: inbound decode failed")

	// ErrBpmOutOfRange marks an estimator sample outside [bpmMin, bpmMax].
	// The sample is discarded and the window restarts.
	ErrBpmOutOfRange = errors.New("midisync: bpm sample out of range")

	// ErrSchedulerDesync marks the internal assertion
	// lastEmittedBoundary > currentBoundary+1. The scheduler clamps and
	// continues.
	ErrSchedulerDesync = errors.New("midisync: scheduler desync")

	// ErrQueueOverflow marks a saturated InboundQueue. The oldest queued
	// event is dropped.
	ErrQueueOverflow = errors.New("midisync: inbound queue overflow")
)

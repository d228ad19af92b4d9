// Package aggregates defines domain-facing aggregate contracts and the generic
// change-tracking engine behind them.
//
// Root records every mutation as a replayable change and enforces the
// track/submit lifecycle. It knows nothing about persistence; stores consume
// the recorded change log without re-deriving what changed.
package aggregates

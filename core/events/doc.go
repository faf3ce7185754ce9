// Package events defines the run events published on the event bus.
//
// Available event kinds:
//   - KindStaged: inputs written to the staging directory
//   - KindStarted: the JVM process was started
//   - KindIteration: the controller began an iteration
//   - KindFinished: the run ended, see Status and ExitCode
package events

// Package java launches the MATSim simulation JVM and streams its output.
//
// The JVM reads the prepared config and the module manifest written by the
// launcher; progress is derived from the controller's iteration log lines.
package java

// Package infra holds the adapters of the launcher: the JVM runner, MQTT
// run notifications, metrics sinks, Sentry monitoring and logging. They
// implement interfaces declared under core and never import app or cmd.
package infra

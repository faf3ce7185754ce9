// Package modules describes the controller modules a Kelheim run installs.
//
// The JVM entry point reads a manifest of installations and performs the
// corresponding Guice bindings, in manifest order. Each installation is
// produced by a factory registered under the module's short name, so the
// set of supported modules is visible in one place:
//
//	m, err := modules.Wire(modules.Input{Options: opts, DRTModes: []string{"drt", "av"}})
//	if err != nil {
//	    return err
//	}
//	err = m.Save("prepared/run/modules.yaml")
package modules

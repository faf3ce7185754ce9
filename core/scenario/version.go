package scenario

import "fmt"

// Version is the scenario release the launcher targets.
const Version = "3.1"

// DefaultConfigPath is the base config shipped with the scenario inputs.
func DefaultConfigPath() string {
	return fmt.Sprintf("input/v%s/kelheim-v%s-config.xml", Version, Version)
}

package config

import (
	"fmt"
	"time"
)

// ScenarioConfig locates the scenario inputs and the staging area.
type ScenarioConfig struct {
	Version string `json:"version"`
	// ConfigPath is the MATSim base config; relative input files resolve against its directory.
	ConfigPath string `json:"config_path"`
	// StagingDir receives one prepared directory per run id.
	StagingDir             string `json:"staging_dir"`
	DownloadTimeoutSeconds int    `json:"download_timeout_seconds"`
}

func (c *ScenarioConfig) SetDefaults() {
	if c.Version == "" {
		c.Version = "3.1"
	}
	if c.ConfigPath == "" {
		c.ConfigPath = "input/v" + c.Version + "/kelheim-v" + c.Version + "-config.xml"
	}
	if c.StagingDir == "" {
		c.StagingDir = "prepared"
	}
	if c.DownloadTimeoutSeconds == 0 {
		c.DownloadTimeoutSeconds = 120
	}
}

func (c ScenarioConfig) Validate() error {
	if c.ConfigPath == "" {
		return fmt.Errorf("scenario: config_path is required")
	}
	if c.StagingDir == "" {
		return fmt.Errorf("scenario: staging_dir is required")
	}
	if c.DownloadTimeoutSeconds < 0 {
		return fmt.Errorf("scenario: download_timeout_seconds must be positive")
	}
	return nil
}

// DownloadTimeout bounds the fetch of remote input files.
func (c ScenarioConfig) DownloadTimeout() time.Duration {
	return time.Duration(c.DownloadTimeoutSeconds) * time.Second
}

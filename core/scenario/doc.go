// Package scenario holds the Kelheim case study: run options, the config
// adjustments applied before every run, the highway extension of the road
// network and the population tweaks. Everything here edits framework input
// documents; the simulation itself runs in the external controller.
package scenario

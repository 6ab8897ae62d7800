// Package template defines the rendering seam used by controls and hosts.
// Implementations live in subpackages; pongo provides the default engine.
package template

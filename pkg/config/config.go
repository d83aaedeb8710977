/*
Copyright © 2025 Sysconf Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package config provides a typed view over a schema resolution for the
// components that consume it (renderers, applier).
package config

import (
	"github.com/sysconf-dev/sysconf/pkg/schema"
)

// Config wraps a Resolution with typed accessors. Options absent from the
// resolution's schema version read as their zero value, so consumers can
// handle v1 and v2 resolutions through the same interface.
type Config struct {
	res *schema.Resolution
}

// New wraps a resolution. The resolution is expected to come from
// schema.Resolve and is never mutated.
func New(res *schema.Resolution) *Config {
	return &Config{res: res}
}

// SchemaVersion returns the schema version the configuration was resolved
// against.
func (c *Config) SchemaVersion() string {
	return c.res.SchemaVersion
}

// Resolution returns the underlying resolution.
func (c *Config) Resolution() *schema.Resolution {
	return c.res
}

func (c *Config) str(name string) string {
	v, _ := c.res.String(name)
	return v
}

func (c *Config) boolean(name string) bool {
	v, _ := c.res.Bool(name)
	return v
}

// EnableContainer reports whether applying inside a container is allowed.
func (c *Config) EnableContainer() bool {
	return c.boolean("enable-container")
}

// Reservation returns the CPU reservation strategy (off, isolcpus,
// affinity). An empty cpu-range downgrades any strategy to off.
func (c *Config) Reservation() string {
	r := c.str(schema.OptReservation)
	if r != "off" && c.CPURange() == "" {
		return "off"
	}
	return r
}

// CPURange returns the CPU list consumed by the reservation strategy.
func (c *Config) CPURange() string {
	return c.str(schema.OptCPURange)
}

// Hugepages returns the number of hugepages to allocate, or "".
func (c *Config) Hugepages() string {
	return c.str("hugepages")
}

// Hugepagesz returns the hugepage size, or "".
func (c *Config) Hugepagesz() string {
	return c.str("hugepagesz")
}

// RAIDAutodetection returns the kernel RAID autodetection mode, or "".
func (c *Config) RAIDAutodetection() string {
	return c.str(schema.OptRAIDAutodetect)
}

// EnablePTI reports whether kernel page-table isolation stays enabled.
func (c *Config) EnablePTI() bool {
	return c.boolean("enable-pti")
}

// EnableIOMMU reports whether IOMMU passthrough boot parameters are added.
// Always false for schema versions without the option.
func (c *Config) EnableIOMMU() bool {
	return c.boolean("enable-iommu")
}

// GrubConfigFlags returns the parsed grub flag map. When grub-config-flags
// is empty, the deprecated config-flags option is consulted instead; the
// two are never merged.
func (c *Config) GrubConfigFlags() map[string]string {
	if flags := c.str("grub-config-flags"); flags != "" {
		return ParseFlagMap(flags)
	}
	return ParseFlagMap(c.str("config-flags"))
}

// SystemdConfigFlags returns the parsed systemd Manager flag map.
func (c *Config) SystemdConfigFlags() map[string]string {
	return ParseFlagMap(c.str("systemd-config-flags"))
}

// KernelVersion returns the kernel release to install and pin, or "".
func (c *Config) KernelVersion() string {
	return c.str("kernel-version")
}

// UpdateGrub reports whether update-grub runs after grub changes.
func (c *Config) UpdateGrub() bool {
	return c.boolean("update-grub")
}

// Governor returns the cpufrequtils governor, or "".
func (c *Config) Governor() string {
	return c.str(schema.OptGovernor)
}

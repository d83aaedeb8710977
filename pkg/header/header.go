/*
Copyright © 2025 Sysconf Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package header defines the Kubernetes-style resource envelope (kind,
// apiVersion, metadata) carried by every document sysconf emits.
package header

import (
	"time"
)

// Kind identifies the type of a sysconf document.
type Kind string

// Valid Kind constants for all emitted document types.
const (
	KindResolvedConfig   Kind = "ResolvedConfig"
	KindValidationResult Kind = "ValidationResult"
	KindRenderResult     Kind = "RenderResult"
	KindApplyResult      Kind = "ApplyResult"
	KindBootState        Kind = "BootState"
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	return string(k)
}

// IsValid checks if the Kind is one of the recognized kinds.
func (k Kind) IsValid() bool {
	switch k {
	case KindResolvedConfig, KindValidationResult, KindRenderResult, KindApplyResult, KindBootState:
		return true
	default:
		return false
	}
}

// Header contains kind, apiVersion, and metadata for sysconf documents.
type Header struct {
	// Kind is the type of the document.
	Kind Kind `json:"kind,omitempty" yaml:"kind,omitempty"`

	// APIVersion identifies the schema version of the document.
	APIVersion string `json:"apiVersion,omitempty" yaml:"apiVersion,omitempty"`

	// Metadata contains key-value pairs describing the document.
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Init populates the Header with the given kind and apiVersion, and stamps
// the metadata with the current UTC time and the tool version.
func (h *Header) Init(kind Kind, apiVersion, version string) {
	h.Kind = kind
	h.APIVersion = apiVersion
	h.Metadata = map[string]string{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if version != "" {
		h.Metadata["version"] = version
	}
}

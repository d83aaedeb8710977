/*
Copyright © 2025 Sysconf Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package serializer writes sysconf documents to files or stdout in JSON,
// YAML, or table form, and reads override files back in. Table output
// flattens nested structures into dotted keys for human consumption and is
// write-only.
package serializer

import "context"

// Serializer writes a document in a configured format.
type Serializer interface {
	Serialize(ctx context.Context, doc any) error
}

// Closer is implemented by serializers that hold resources such as file
// handles.
type Closer interface {
	Close() error
}

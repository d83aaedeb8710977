/*
Copyright © 2025 Sysconf Authors
SPDX-License-Identifier: Apache-2.0
*/
package main

import "github.com/sysconf-dev/sysconf/pkg/cli"

func main() {
	cli.Execute()
}

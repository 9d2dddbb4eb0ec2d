// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and prysm contributors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/cobaltcore-dev/hostcheck/pkg/commands"
)

func main() {
	commands.Execute()
}

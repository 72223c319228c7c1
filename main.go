// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/ducklauncher/duck/cmd/duck"

func main() {
	cmd.Execute()
}

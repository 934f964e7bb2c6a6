// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/buildcomp/buildcomp/cmd/buildcomp"

func main() {
	cmd.Execute()
}

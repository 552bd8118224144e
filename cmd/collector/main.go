// Package main provides the collector command-line tool for gathering U.S. House member records.
package main

import "housemembers/cmd/collector/commands"

func main() {
	commands.Execute()
}

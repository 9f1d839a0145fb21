// Package main provides the entry point for the userscan CLI.
//
// userscan checks whether a username is registered across a catalog of
// websites and reports where matching profiles exist.
//
// Usage:
//
//	userscan scan <username>
//	userscan scan --variants <username>
//
// See --help for all available options.
package main

// main is the entry point for userscan.
func main() {
	Execute()
}

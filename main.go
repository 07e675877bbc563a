// Package main is the entry point for the colcon-helper CLI.
package main

import "github.com/deitry/vscode-colcon-helper/cmd"

func main() {
	cmd.Execute()
}

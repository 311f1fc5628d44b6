// Package main is the posebridge entrypoint.
package main

import "github.com/ayusman/posebridge/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}

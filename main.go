// Package main is the entry point for the passmetrics CLI tool, which loads
// football match event tables and reports per-player passing metrics.
package main

import "github.com/pable/go-pass-metrics/cmd"

func main() {
	cmd.Execute()
}

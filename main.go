// Package main provides the entry point for the kakeibo CLI application.
package main

import (
	"os"

	"harufuji/kakeibo/cmd/categorize"
	"harufuji/kakeibo/cmd/importcsv"
	"harufuji/kakeibo/cmd/root"
	"harufuji/kakeibo/cmd/scan"
)

func main() {
	root.Init()

	root.Cmd.AddCommand(scan.Cmd)
	root.Cmd.AddCommand(importcsv.Cmd)
	root.Cmd.AddCommand(categorize.Cmd)

	if err := root.Cmd.Execute(); err != nil {
		root.Log.Error(err)
		os.Exit(1)
	}
}

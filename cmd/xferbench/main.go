// cmd/xferbench/main.go
package main

import (
	cli "github.com/mwiater/xferbench/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	setVersionInfo = cli.SetVersionInfo
	executeCmd     = cli.Execute
)

// main starts the xferbench CLI by delegating to the cobra root command.
func main() {
	setVersionInfo(version, commit, date)
	executeCmd()
}

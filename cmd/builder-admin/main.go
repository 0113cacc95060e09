package main

import (
	"github.com/artsapp/builder/cmd/cli"
)

// main is the entry point for the builder-admin command-line tool.
// main 是 builder-admin 命令行工具的入口点。
func main() {
	cli.Execute()
}

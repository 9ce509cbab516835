package main

import "github.com/attunehq/ygmbench/cmd"

var version = "dev"

func main() {
	cmd.SetVersion(version)
	cmd.Execute()
}

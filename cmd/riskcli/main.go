package main

import "github.com/fleetsight/telemetry-risk/internal/cli"

func main() {
	cli.Execute()
}

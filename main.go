// main.go
//
// Entry point delegating CLI handling to the Cobra root command in cmd/root.go

package main

import (
	"agent-sim/cmd"
)

func main() {
	cmd.Execute()
}

// Idiomatic entrypoint for Cobra CLI that delegates handling to the Cobra root command in cmd/root.go
package main

import (
	"github.com/estuhr1206/scheduling-policies-sim/cmd"
)

func main() {
	cmd.Execute()
}

// Command qsynth generates synthetic book and demographic records from simulated quantum
// circuits and writes them as JSON, JSON lines, msgpack or SQLite.
package main

import (
	"os"

	"github.com/theapemachine/errnie"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		errnie.Warn("%v", err)
		os.Exit(1)
	}
}

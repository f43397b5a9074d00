package main

import "github.com/lance13c/formpilot/cmd"

var version = "dev"

// Signal handling lives in the commands that need graceful teardown; an
// exit here on SIGINT would race the assist overlay's detach sequence.
func main() {
	cmd.SetVersion(version)
	cmd.Execute()
}

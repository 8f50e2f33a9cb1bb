package main

import "github.com/oshokin/alarm-panel/cmd/alarm-status/cmd"

func main() {
	cmd.Execute()
}

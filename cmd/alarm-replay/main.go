package main

import "github.com/oshokin/alarm-panel/cmd/alarm-replay/cmd"

func main() {
	cmd.Execute()
}

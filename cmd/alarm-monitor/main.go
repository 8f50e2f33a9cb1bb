package main

import "github.com/oshokin/alarm-panel/cmd/alarm-monitor/cmd"

func main() {
	cmd.Execute()
}

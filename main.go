package main

import "calendar-agent/cmd"

func main() {
	cmd.Execute()
}

package main

import "github.com/skyforge/wingen/cmd"

func main() {
	cmd.Execute()
}

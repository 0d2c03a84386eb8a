package main

import "github.com/gaurav-prasanna/rostercard/cmd"

func main() {
	cmd.Execute()
}

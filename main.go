package main

import "github.com/lookalike-app/lookalike/cmd"

func main() {
	cmd.Execute()
}

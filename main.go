package main

import "github.com/rnwolfe/reps/cmd"

func main() {
	cmd.Execute()
}

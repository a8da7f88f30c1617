package main

import "clue/cmd"

func main() {
	cmd.Execute()
}

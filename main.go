package main

import "bioattend/cmd"

func main() {
	cmd.Execute()
}

package main

import "gold-splitter/cmd"

func main() {
	cmd.Execute()
}

package main

import "reserving/cmd"

func main() {
	cmd.Execute()
}

package main

import "model-sync/cmd"

func main() {
	cmd.Execute()
}

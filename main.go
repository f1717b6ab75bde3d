package main

import "aoba/cmd"

func main() {
	cmd.Execute()
}

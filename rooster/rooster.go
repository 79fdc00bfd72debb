package main

import "github.com/thdelmas/Rooster/cmd/rooster/cmd"

func main() {
	cmd.Execute()
}

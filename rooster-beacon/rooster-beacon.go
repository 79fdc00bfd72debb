package main

import "github.com/thdelmas/Rooster/cmd/rooster-beacon/cmd"

func main() {
	cmd.Execute()
}

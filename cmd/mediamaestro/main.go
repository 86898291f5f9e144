package main

import (
	"fmt"
	"os"

	"mediamaestro/cmd/mediamaestro/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

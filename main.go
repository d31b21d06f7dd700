package main

import (
	"os"

	"tweet-to-toot/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

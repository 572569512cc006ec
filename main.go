package main

import (
	"log"

	"FJS-go/cli"
)

func main() {
	if err := cli.BuildCLI().Execute(); err != nil {
		log.Fatalf("fjs: %v", err)
	}
}

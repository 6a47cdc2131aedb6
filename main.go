package main

import (
	"log"

	"github.com/sagip-ops/sagip/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatalf("sagip: %v", err)
	}
}

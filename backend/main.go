package main

import (
	"log"
	"os"
)

func main() {
	if err := newCLI().Run(os.Args); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

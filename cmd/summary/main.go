// Command summary prints the number of cards and sets in the dataset.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ptcgp/data-api/internal/data"
)

func main() {
	defaultDir := os.Getenv("DATA_DIR")
	if defaultDir == "" {
		defaultDir = "./data"
	}
	dataDir := flag.String("data", defaultDir, "directory containing the dataset JSON files")
	flag.Parse()

	dataset, err := data.Load(*dataDir)
	if err != nil {
		log.Fatalf("Failed to load dataset: %v", err)
	}

	fmt.Printf("Cards: %d\n", dataset.CardCount())
	fmt.Printf("Sets: %d\n", dataset.SetCount())
}

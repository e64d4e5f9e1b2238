package main

import (
	"context"
	"fmt"
	"log"

	"github.com/siherrmann/veil"
	"github.com/siherrmann/veil/model"
)

const draft = `Le Projet Zeus démarre en septembre avec Hélène Martin. Budget : 120 000 €. Questions à helene.martin@zeus.io.`

func main() {
	v, err := veil.NewVeil(nil)
	if err != nil {
		log.Fatalf("Failed to create veil: %v", err)
	}
	defer v.Close()

	s := v.NewSession()

	// Ghost mode: the operator names exactly what must disappear and what
	// replaces it, on top of automatic detection.
	manual := []model.ManualMapping{
		{Original: "Projet Zeus", Replacement: "the project"},
		{Original: "Hélène Martin", Replacement: "[PERSON_1]"},
	}

	result, err := s.ApplyGhostMode(context.Background(), draft, manual)
	if err != nil {
		log.Fatalf("Failed to apply ghost mode: %v", err)
	}

	fmt.Println("Original:")
	fmt.Println(draft)
	fmt.Println("\nGhosted:")
	fmt.Println(result.Text)

	fmt.Println("\nMapping table:")
	for _, entry := range result.Table.Entries() {
		fmt.Printf("  %s -> %q\n", entry.Token, entry.Original)
	}

	fmt.Println("\nRestored:")
	fmt.Println(s.Deanonymize(result.Text))
}

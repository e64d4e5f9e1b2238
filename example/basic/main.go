package main

import (
	"context"
	"fmt"
	"log"

	"github.com/siherrmann/veil"
)

const sampleText = `Jean Dupont travaille chez Acme Corp. Contactez Jean au 06 12 34 56 78 ou par mail à jean.dupont@acme.fr. Salaire souhaité : 45 000 €.`

func main() {
	v, err := veil.NewVeil(nil)
	if err != nil {
		log.Fatalf("Failed to create veil: %v", err)
	}
	defer v.Close()

	// The default engine runs the regex detector only; it finds emails,
	// phone numbers and amounts. Uncomment to add the NER model for names:
	// if err := v.UseNeuralDetector(); err != nil {
	// 	log.Fatalf("Failed to load neural detector: %v", err)
	// }

	fmt.Println("Original:")
	fmt.Println(sampleText)

	result, err := v.Anonymize(context.Background(), sampleText)
	if err != nil {
		log.Fatalf("Failed to anonymize: %v", err)
	}

	fmt.Println("\nAnonymized:")
	fmt.Println(result.Text)
	fmt.Printf("\nMasked %d entities:\n", result.Stats.TotalMasked)
	for entityType, count := range result.Stats.ByType {
		fmt.Printf("  %s: %d\n", entityType, count)
	}

	fmt.Println("\nMapping table:")
	for _, entry := range result.Table.Entries() {
		fmt.Printf("  %s -> %q\n", entry.Token, entry.Original)
	}

	restored := v.Deanonymize(result.Text, result.Table)
	fmt.Println("\nRestored:")
	fmt.Println(restored)

	if restored == sampleText {
		fmt.Println("\nRound trip reproduced the original exactly.")
	}
}

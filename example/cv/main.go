package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/siherrmann/veil"
	"github.com/siherrmann/veil/session"
)

const cvText = `Jean Dupont
Développeur backend — Paris
06 12 34 56 78 — jean.dupont@mail.fr

Expérience :
2021-2026  Acme Corp — développeur Go senior
2018-2021  Startup Nova — développeur full-stack

Formation :
2018  École Centrale de Lyon, diplôme d'ingénieur

Prétentions salariales : 55 000 €`

func main() {
	// OLLAMA_URL and OLLAMA_MODEL can come from a .env file.
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	ollamaURL := os.Getenv("OLLAMA_URL")
	if ollamaURL == "" {
		ollamaURL = "http://localhost:11434"
	}
	ollamaModel := os.Getenv("OLLAMA_MODEL")
	if ollamaModel == "" {
		ollamaModel = "llama3"
	}

	v, err := veil.NewVeil(nil)
	if err != nil {
		log.Fatalf("Failed to create veil: %v", err)
	}
	defer v.Close()

	// Names and companies need the NER model; emails, phones and amounts
	// are covered by the regex fallback.
	if err := v.UseNeuralDetector(); err != nil {
		log.Printf("Neural detector unavailable, continuing with regex only: %v", err)
	}

	v.SetLLMClient(session.NewOllamaClient(ollamaURL, ollamaModel))

	s := v.NewSession()
	result, err := s.AnalyzeCV(context.Background(), cvText)
	if err != nil {
		log.Fatalf("Failed to analyze CV: %v", err)
	}

	fmt.Println("Sent to the model:")
	fmt.Println(result.Anonymized)
	if result.Warning {
		fmt.Println("\nWARNING: detection degraded, the text above was sent un-redacted.")
	}

	fmt.Println("\nReview (restored):")
	fmt.Println(result.Reply)
}

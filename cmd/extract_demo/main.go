package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"flightchat/internal/ai"
	"flightchat/internal/config"
	"flightchat/internal/infra"
	"flightchat/internal/modules/flights"
)

func main() {
	search := flag.Bool("search", false, "also query the flight provider and print normalized results")
	flag.Parse()

	prompt := strings.Join(flag.Args(), " ")
	if prompt == "" {
		prompt = "Tell me flights from Paris to Zurich on 21st Oct 2024"
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	llm, closeLLM, err := infra.NewToolCaller(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize AI provider: %v", err)
	}
	defer closeLLM()

	conv := []flights.Turn{{Role: ai.RoleUser, Content: prompt}}
	fmt.Printf("User: %s\n", prompt)

	if *search {
		res, err := infra.NewFlightService(cfg, llm).Resolve(ctx, conv)
		if err != nil {
			log.Fatalf("Error resolving flights: %v", err)
		}
		for _, f := range res.Flights {
			fmt.Printf("%s  %s %s -> %s %s\n", f.Price, f.DepartureAirportName, f.DepartureAirportTime, f.ArrivalAirportName, f.ArrivalAirportTime)
		}
		if res.Error != "" {
			fmt.Printf("Error: %s\n", res.Error)
		}
		return
	}

	params, err := flights.NewExtractor(llm, nil).Extract(ctx, conv)
	if err != nil {
		log.Fatalf("Error extracting intent: %v", err)
	}
	fmt.Printf("Departure: %s on %s\n", params.DepartureID, params.DepartureDate)
	fmt.Printf("Arrival:   %s", params.ArrivalID)
	if params.ArrivalDate != nil {
		fmt.Printf(" on %s", *params.ArrivalDate)
	}
	fmt.Println()
	if q, ok := flights.BuildQuery(*params); ok {
		fmt.Printf("Provider query: %s\n", q.Values("<redacted>").Encode())
	} else {
		fmt.Println("Provider query: none (no arrival date)")
	}
}

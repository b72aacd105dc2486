package flights

import (
	"fmt"

	"flightchat/internal/ai"
)

const (
	ToolName = "flight_generator"

	fieldDepartureID   = "departure_id"
	fieldDepartureDate = "departure_date"
	fieldArrivalID     = "arrival_id"
	fieldArrivalDate   = "arrival_date"
)

const airportDescription = "This represents the %s airport code in 3 letters. " +
	"If you find a name of the country from user prompt, locate the most busiest airport and use it's IATA based 3-letter code, " +
	"else if find an airport in the prompt, use it's IATA based airport code."

const dateDescription = "This represents the %s date in YYYY-MM-DD format. " +
	"If you can not find a date in user prompt, just use %s as the fallback."

// FlightTool declares the extraction tool. today is the YYYY-MM-DD fallback
// the model is told to use when the prompt carries no date.
func FlightTool(today string) ai.ToolDefinition {
	return ai.ToolDefinition{
		Name:        ToolName,
		Description: "Extract flight details from the user prompt.",
		Parameters: ai.ParameterSchema{
			Properties: []ai.Property{
				{Name: fieldDepartureID, Type: "string", Description: fmt.Sprintf(airportDescription, "departure")},
				{Name: fieldDepartureDate, Type: "string", Description: fmt.Sprintf(dateDescription, "departure", today)},
				{Name: fieldArrivalID, Type: "string", Description: fmt.Sprintf(airportDescription, "arrival")},
				{Name: fieldArrivalDate, Type: "string", Description: fmt.Sprintf(dateDescription, "arrival", today)},
			},
			Required: []string{fieldDepartureID, fieldDepartureDate, fieldArrivalID, fieldArrivalDate},
		},
	}
}

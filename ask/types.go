package ask

import (
	"github.com/janmitra/yojana/scheme"
	"github.com/janmitra/yojana/websearch"
)

// DefaultApplicationLink is returned when the resolved scheme does not
// carry an application link of its own.
const DefaultApplicationLink = "https://services.india.gov.in"

// FallbackAnswer is returned when the model produces an empty completion.
const FallbackAnswer = "Unable to generate response"

// Response is the full answer payload for a question.
type Response struct {
	Success         bool               `json:"success"`
	Answer          string             `json:"answer"`
	SchemeDetails   *scheme.Details    `json:"schemeDetails"`
	SearchResults   []websearch.Result `json:"searchResults"`
	ApplicationLink string             `json:"applicationLink"`
}

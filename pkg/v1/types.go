package v1

import "time"

// Analysis is one completed sandhi decomposition.
type Analysis struct {
	Input          string    `json:"input"`
	GeneratedText  string    `json:"generated_text"`
	UsedPrinciples []string  `json:"used_principles"`
	At             time.Time `json:"at"`
}

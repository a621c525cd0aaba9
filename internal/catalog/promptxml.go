package catalog

import (
	"encoding/xml"
	"fmt"
	"sort"

	"github.com/flexigpt/lingo-go/spec"
)

type AvailableScenarioItem struct {
	ID          string `xml:"id"`
	Title       string `xml:"title"`
	Description string `xml:"description,omitempty"`
}

type availableScenarios struct {
	XMLName   xml.Name                `xml:"availableScenarios"` //nolint:tagliatelle // XML specific thing.
	Scenarios []AvailableScenarioItem `xml:"scenario"`           //nolint:tagliatelle // XML specific thing.
}

// AvailableScenariosXML renders scenario listings for a system prompt, sorted by id.
func AvailableScenariosXML(items []spec.ScenarioSummary) (string, error) {
	sorted := append([]spec.ScenarioSummary(nil), items...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	out := availableScenarios{Scenarios: make([]AvailableScenarioItem, 0, len(sorted))}
	for _, it := range sorted {
		out.Scenarios = append(out.Scenarios, AvailableScenarioItem{
			ID:          string(it.ID),
			Title:       it.Title,
			Description: it.Description,
		})
	}

	b, err := xml.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", fmt.Errorf("xml encode: %w", err)
	}
	return string(b), nil
}

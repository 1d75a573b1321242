package report

import (
	"encoding/json"
	"io"

	"github.com/JNZader/commitlint/internal/lint"
	"github.com/JNZader/commitlint/internal/rules"
)

const (
	sarifSchema    = "https://json.schemastore.org/sarif-2.1.0.json"
	sarifVersion   = "2.1.0"
	sarifToolName  = "commitlint"
	parseErrorRule = "parse-error"
)

// SARIFReporter generates SARIF 2.1.0 reports.
type SARIFReporter struct {
	Version string
}

func (r *SARIFReporter) Format() string { return "sarif" }

// SARIF types
type sarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri,omitempty"`
	Rules          []sarifRule `json:"rules,omitempty"`
}

type sarifRule struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description sarifMessage `json:"shortDescription"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation struct {
		ArtifactLocation struct {
			URI string `json:"uri"`
		} `json:"artifactLocation"`
		Region *sarifRegion `json:"region,omitempty"`
	} `json:"physicalLocation"`
}

type sarifRegion struct {
	StartLine int `json:"startLine"`
}

func (r *SARIFReporter) Generate(report *lint.Report) (string, error) {
	doc := r.buildReport(report)
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (r *SARIFReporter) Write(report *lint.Report, w io.Writer) error {
	doc := r.buildReport(report)
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}

func (r *SARIFReporter) buildReport(report *lint.Report) *sarifReport {
	version := r.Version
	if version == "" {
		version = "dev"
	}

	driver := sarifDriver{
		Name:           sarifToolName,
		Version:        version,
		InformationURI: report.HelpURL,
	}
	results := []sarifResult{}
	seen := map[string]bool{}

	addRule := func(id string) {
		if seen[id] {
			return
		}
		seen[id] = true
		rule := sarifRule{ID: id, Name: id}
		if def, ok := rules.Lookup(id); ok {
			rule.Description.Text = def.Description
		} else if id == parseErrorRule {
			rule.Description.Text = "commit message could not be parsed"
		}
		driver.Rules = append(driver.Rules, rule)
	}

	for _, o := range report.Outcomes {
		if o.Err != nil {
			addRule(parseErrorRule)
			results = append(results, sarifResult{
				RuleID:    parseErrorRule,
				Level:     "error",
				Message:   sarifMessage{Text: o.Err.Error()},
				Locations: r.locations(o),
			})
			continue
		}

		for _, v := range o.Violations {
			addRule(v.Rule)
			results = append(results, sarifResult{
				RuleID:    v.Rule,
				Level:     r.mapLevel(v.Severity),
				Message:   sarifMessage{Text: v.Message},
				Locations: r.locations(o),
			})
		}
	}

	return &sarifReport{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []sarifRun{{
			Tool:    sarifTool{Driver: driver},
			Results: results,
		}},
	}
}

// locations points at the message source; the header is line 1.
func (r *SARIFReporter) locations(o *lint.Outcome) []sarifLocation {
	if o.Source == "" {
		return nil
	}
	loc := sarifLocation{}
	loc.PhysicalLocation.ArtifactLocation.URI = o.Source
	loc.PhysicalLocation.Region = &sarifRegion{StartLine: 1}
	return []sarifLocation{loc}
}

func (r *SARIFReporter) mapLevel(severity rules.Severity) string {
	switch severity {
	case rules.SeverityError:
		return "error"
	case rules.SeverityWarning:
		return "warning"
	default:
		return "note"
	}
}

package report

import (
	"encoding/json"
	"io"

	"github.com/JNZader/commitlint/internal/lint"
)

// JSONReporter generates JSON reports.
type JSONReporter struct {
	Indent bool
}

type jsonReport struct {
	Passed   bool          `json:"passed"`
	Errors   int           `json:"errors"`
	Warnings int           `json:"warnings"`
	Ignored  int           `json:"ignored"`
	Duration string        `json:"duration,omitempty"`
	HelpURL  string        `json:"help_url,omitempty"`
	Results  []jsonOutcome `json:"results"`
}

type jsonOutcome struct {
	*lint.Outcome
	Error string `json:"error,omitempty"`
}

func (r *JSONReporter) Format() string { return "json" }

func (r *JSONReporter) Generate(report *lint.Report) (string, error) {
	var data []byte
	var err error

	doc := r.build(report)
	if r.Indent {
		data, err = json.MarshalIndent(doc, "", "  ")
	} else {
		data, err = json.Marshal(doc)
	}

	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (r *JSONReporter) Write(report *lint.Report, w io.Writer) error {
	encoder := json.NewEncoder(w)
	if r.Indent {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(r.build(report))
}

func (r *JSONReporter) build(report *lint.Report) *jsonReport {
	doc := &jsonReport{
		Passed:   report.Passed(),
		Errors:   report.Errors(),
		Warnings: report.Warnings(),
		Ignored:  report.Ignored(),
		HelpURL:  report.HelpURL,
		Results:  make([]jsonOutcome, 0, len(report.Outcomes)),
	}
	if report.Duration > 0 {
		doc.Duration = report.Duration.String()
	}

	for _, o := range report.Outcomes {
		jo := jsonOutcome{Outcome: o}
		if o.Err != nil {
			jo.Error = o.Err.Error()
		}
		doc.Results = append(doc.Results, jo)
	}
	return doc
}

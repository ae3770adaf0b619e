package output

import (
	"github.com/dthorne/relvet/model"
	jsonoutput "github.com/dthorne/relvet/shared/json_output"
	reporttable "github.com/dthorne/relvet/shared/report_table"
	"github.com/dthorne/relvet/shared/spinner"
)

// Format represents the output format type
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// Renderer defines the interface for drawing tables
type Renderer interface {
	DrawReleaseTable(input model.RenderReleaseInput)
	DrawCITable(input model.RenderCIInput)
	DrawTimingsTable(input model.RenderTimingsInput)
	OutputReportJSON(release model.RenderReleaseInput, ci model.RenderCIInput, timings model.RenderTimingsInput) error
	StopSpinner()
}

type realRenderer struct{}

func (r *realRenderer) DrawReleaseTable(input model.RenderReleaseInput) {
	reporttable.DrawReleaseTable(input)
}

func (r *realRenderer) DrawCITable(input model.RenderCIInput) {
	reporttable.DrawCITable(input)
}

func (r *realRenderer) DrawTimingsTable(input model.RenderTimingsInput) {
	reporttable.DrawTimingsTable(input)
}

func (r *realRenderer) OutputReportJSON(release model.RenderReleaseInput, ci model.RenderCIInput, timings model.RenderTimingsInput) error {
	return jsonoutput.OutputReportJSON(release, ci, timings)
}

func (r *realRenderer) StopSpinner() {
	spinner.StopSpinner()
}

// service is the internal implementation
type service struct {
	format   Format
	renderer Renderer
}

// Service defines the interface for output operations
type Service interface {
	RenderReport(release model.RenderReleaseInput, ci model.RenderCIInput, timings model.RenderTimingsInput) error
	StopSpinner()
}

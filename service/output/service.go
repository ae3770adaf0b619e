// Package output provides a service for rendering results to the console.
package output

import (
	"github.com/dthorne/relvet/model"
)

// NewService creates a new output service with the specified format
func NewService(format string) Service {
	f := FormatTable
	if format == "json" {
		f = FormatJSON
	}

	return &service{
		format:   f,
		renderer: &realRenderer{},
	}
}

func (s *service) RenderReport(release model.RenderReleaseInput, ci model.RenderCIInput, timings model.RenderTimingsInput) error {
	if s.format == FormatJSON {
		return s.renderer.OutputReportJSON(release, ci, timings)
	}

	s.renderer.DrawReleaseTable(release)
	s.renderer.DrawCITable(ci)
	if len(timings.Laps) > 0 {
		s.renderer.DrawTimingsTable(timings)
	}

	return nil
}

func (s *service) StopSpinner() {
	s.renderer.StopSpinner()
}

package store

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/agenthands/genescan/internal/core/model"
	"github.com/agenthands/genescan/internal/core/summary"
	"github.com/spf13/afero"
)

// RawResponse is one backend reply as received, before any parsing.
type RawResponse struct {
	Batch          int      `json:"batch"`
	Genes          []string `json:"genes"`
	Response       string   `json:"response"`
	LatencySeconds float64  `json:"latency_seconds"`
	Attempts       int      `json:"attempts"`
}

type selectedGenes struct {
	Genes []string `json:"genes"`
}

// RunWriter writes the artifacts of one run. Per-batch files are flushed
// as each batch arrives so partial progress survives a later failure.
type RunWriter struct {
	fs         afero.Afero
	dir        string
	raw        []RawResponse
	structured []any
}

func (w *RunWriter) Dir() string {
	return w.dir
}

func (w *RunWriter) writeJSON(name string, v any) error {
	data, err := marshal(v)
	if err != nil {
		return err
	}
	return w.write(name, data)
}

func (w *RunWriter) write(name string, data []byte) error {
	if err := w.fs.WriteFile(filepath.Join(w.dir, name), data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

func (w *RunWriter) WriteSelected(genes []string) error {
	return w.writeJSON(SelectedGenesFile, selectedGenes{Genes: genes})
}

// AppendRaw writes raw_batch_NN.txt and refreshes raw_model_responses.json.
func (w *RunWriter) AppendRaw(r RawResponse) error {
	if err := w.write(fmt.Sprintf("raw_batch_%02d.txt", r.Batch), []byte(r.Response)); err != nil {
		return err
	}
	w.raw = append(w.raw, r)
	return w.writeJSON(RawResponsesFile, w.raw)
}

// AppendStructured records a parsed, not yet validated, batch payload.
func (w *RunWriter) AppendStructured(payload any) error {
	w.structured = append(w.structured, payload)
	return w.writeJSON(StructuredFile, w.structured)
}

func (w *RunWriter) WriteResults(result model.RunResult) error {
	records := result.Records
	if records == nil {
		records = []model.ClassificationRecord{}
	}
	return w.writeJSON(ResultsFile, records)
}

func (w *RunWriter) WriteSummary(s *summary.Summary) error {
	if err := w.writeJSON(SummaryJSONFile, s); err != nil {
		return err
	}
	return w.write(SummaryMDFile, []byte(s.Markdown()))
}

func (w *RunWriter) WriteSpotAudit(markdown string) error {
	return w.write(SpotAuditFile, []byte(markdown))
}

// RunReader loads the artifacts of a completed run.
type RunReader struct {
	fs   afero.Afero
	dir  string
	name string
}

func (r *RunReader) Name() string {
	return r.name
}

func (r *RunReader) readJSON(name string, v any) error {
	data, err := r.fs.ReadFile(filepath.Join(r.dir, name))
	if err != nil {
		return fmt.Errorf("failed to read %s of run %s: %w", name, r.name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s of run %s: %w", name, r.name, err)
	}
	return nil
}

func (r *RunReader) Results() (model.RunResult, error) {
	var records []model.ClassificationRecord
	if err := r.readJSON(ResultsFile, &records); err != nil {
		return model.RunResult{}, err
	}
	return model.RunResult{Records: records}, nil
}

func (r *RunReader) Summary() (*summary.Summary, error) {
	var s summary.Summary
	if err := r.readJSON(SummaryJSONFile, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *RunReader) SelectedGenes() ([]string, error) {
	var sel selectedGenes
	if err := r.readJSON(SelectedGenesFile, &sel); err != nil {
		return nil, err
	}
	return sel.Genes, nil
}

func (r *RunReader) RawResponses() ([]RawResponse, error) {
	var raw []RawResponse
	if err := r.readJSON(RawResponsesFile, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

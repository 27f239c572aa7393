package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"serialsheets/adapters/excel"
	"serialsheets/domain/pipeline"
	"serialsheets/domain/sheet"
	"serialsheets/domain/tabular"
	"serialsheets/internal/errors"
	"serialsheets/internal/profile"
	"serialsheets/ports"
)

// runOptions is the wire form of pipeline.Options shared by the run and
// edit endpoints. Zero values fall back to the defaults.
type runOptions struct {
	Mode       string `json:"mode"`
	Grouping   string `json:"grouping"`
	Validate   *bool  `json:"validate"`
	Duplicates string `json:"duplicates"`
}

func (o runOptions) toOptions() pipeline.Options {
	opts := pipeline.DefaultOptions()
	if o.Mode == string(sheet.ModeLot) {
		opts.Mode = sheet.ModeLot
	}
	switch pipeline.Grouping(o.Grouping) {
	case pipeline.GroupNone, pipeline.GroupPart, pipeline.GroupPartInvoice:
		opts.Grouping = pipeline.Grouping(o.Grouping)
	}
	if o.Validate != nil {
		opts.Validate = *o.Validate
	}
	if o.Duplicates == string(pipeline.DropDuplicates) {
		opts.Duplicates = pipeline.DropDuplicates
	}
	return opts
}

type textRequest struct {
	runOptions
	Text       string `json:"text"`
	SheetName  string `json:"sheet_name"`
	Column     int    `json:"column"`
	SkipHeader bool   `json:"skip_header"`
}

// handleRunText runs the manual-entry pipeline and appends the produced
// sheet on success.
func (s *Server) handleRunText(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.InvalidInput("invalid request body"))
		return
	}

	opts := req.toOptions()
	opts.SheetName = req.SheetName
	opts.Column = req.Column
	opts.SkipHeader = req.SkipHeader

	result, err := pipeline.RunText(req.Text, opts)
	if err != nil {
		log.Printf("[handleRunText] run failed: %v", err)
		writeError(w, err)
		return
	}

	stored := s.sheets.Append(result.Sheets[0])
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"run_id":     result.RunID,
		"name":       stored,
		"records":    len(result.Sheets[0].Records),
		"mismatches": result.Mismatches,
	})
}

// handleUpload decodes an uploaded workbook or delimited file, caches its
// table, and returns headers plus mapping suggestions. The saved mapping is
// reapplied when the new file still carries the saved headers.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, errors.InvalidInput("no file uploaded"))
		return
	}
	defer file.Close()

	reader := excel.NewDataReader(header.Filename)
	wb, err := reader.ReadWorkbook(file, r.FormValue("sheet"))
	if err != nil {
		log.Printf("[handleUpload] FAILED - decode error for %s: %v", header.Filename, err)
		writeError(w, err)
		return
	}

	s.setTable(wb.Table, wb.SheetNames)

	profiles, err := profile.ProfileTable(r.Context(), wb.Table)
	if err != nil {
		writeError(w, err)
		return
	}
	suggested := profile.SuggestMapping(profiles)

	response := map[string]interface{}{
		"headers":     wb.Table.Headers,
		"rows":        len(wb.Table.Rows),
		"sheet_names": wb.SheetNames,
		"sheet":       wb.ActiveName,
		"suggested":   suggested,
		"profiles":    profiles,
	}

	if saved, err := s.store.Load(r.Context(), ports.DefaultMappingKey); err != nil {
		log.Printf("[handleUpload] mapping store unavailable: %v", err)
	} else if saved != nil && len(saved.Missing(wb.Table.Headers, pipeline.GroupPartInvoice)) == 0 {
		response["saved"] = saved
	}

	writeJSON(w, http.StatusOK, response)
}

type tableRequest struct {
	runOptions
	Mapping     pipeline.Mapping `json:"mapping"`
	SaveMapping bool             `json:"save_mapping"`
}

// handleRunTable runs the grouping pipeline over the cached upload and
// appends every produced sheet on success.
func (s *Server) handleRunTable(w http.ResponseWriter, r *http.Request) {
	var req tableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.InvalidInput("invalid request body"))
		return
	}

	table := s.currentTable()
	if table == nil {
		writeError(w, errors.InvalidInput("no file uploaded yet"))
		return
	}

	result, err := pipeline.RunTable(table, req.Mapping, req.toOptions())
	if err != nil {
		log.Printf("[handleRunTable] run failed: %v", err)
		writeError(w, err)
		return
	}

	names := make([]string, len(result.Sheets))
	for i, sh := range result.Sheets {
		names[i] = s.sheets.Append(sh)
	}

	if req.SaveMapping {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		if err := s.store.Save(ctx, ports.DefaultMappingKey, req.Mapping); err != nil {
			// A failed preference save never fails the run.
			log.Printf("[handleRunTable] mapping save failed: %v", err)
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"run_id":     result.RunID,
		"sheets":     names,
		"mismatches": result.Mismatches,
	})
}

// handleListSheets returns the summary table of the collection.
func (s *Server) handleListSheets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sheets": s.sheets.Summary(),
		"count":  s.sheets.Len(),
	})
}

func (s *Server) sheetIndex(r *http.Request) (int, error) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		return 0, errors.InvalidInput("sheet index must be an integer")
	}
	return index, nil
}

// handleGetSheet returns one sheet with its records.
func (s *Server) handleGetSheet(w http.ResponseWriter, r *http.Request) {
	index, err := s.sheetIndex(r)
	if err != nil {
		writeError(w, err)
		return
	}
	sh, err := s.sheets.At(index)
	if err != nil {
		writeError(w, errors.NotFound("sheet"))
		return
	}

	values := make([]string, len(sh.Records))
	for i, rec := range sh.Records {
		values[i] = rec.Identity()
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"name":   sh.Name,
		"values": values,
	})
}

type replaceRequest struct {
	runOptions
	Name       string `json:"name"`
	Text       string `json:"text"`
	Column     int    `json:"column"`
	SkipHeader bool   `json:"skip_header"`
}

// handleReplaceSheet rebuilds a sheet from edited text and overwrites it in
// place.
func (s *Server) handleReplaceSheet(w http.ResponseWriter, r *http.Request) {
	index, err := s.sheetIndex(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req replaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.InvalidInput("invalid request body"))
		return
	}

	opts := req.toOptions()
	opts.SheetName = req.Name
	opts.Column = req.Column
	opts.SkipHeader = req.SkipHeader

	result, err := pipeline.RunText(req.Text, opts)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.sheets.ReplaceAt(index, result.Sheets[0]); err != nil {
		writeError(w, errors.NotFound("sheet"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"run_id":     result.RunID,
		"mismatches": result.Mismatches,
	})
}

// handleDeleteSheet removes one sheet.
func (s *Server) handleDeleteSheet(w http.ResponseWriter, r *http.Request) {
	index, err := s.sheetIndex(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.sheets.RemoveAt(index); err != nil {
		writeError(w, errors.NotFound("sheet"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleSheetTSV returns one sheet as tab-separated text, the clipboard copy
// payload.
func (s *Server) handleSheetTSV(w http.ResponseWriter, r *http.Request) {
	index, err := s.sheetIndex(r)
	if err != nil {
		writeError(w, err)
		return
	}
	sh, err := s.sheets.At(index)
	if err != nil {
		writeError(w, errors.NotFound("sheet"))
		return
	}

	rows := make([][]string, len(sh.Records))
	for i, rec := range sh.Records {
		cells := rec.Values()
		row := make([]string, len(cells))
		for j, c := range cells {
			row[j] = fmt.Sprint(c)
		}
		rows[i] = row
	}

	w.Header().Set("Content-Type", "text/tab-separated-values; charset=utf-8")
	fmt.Fprint(w, tabular.EncodeTSV(sheet.Columns, rows))
}

// handleExport streams the whole collection as an XLSX download.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if s.sheets.Len() == 0 {
		writeError(w, errors.EmptyInput("no sheets to export"))
		return
	}

	filename := fmt.Sprintf("serialsheets-%s.xlsx", time.Now().Format("20060102-150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := excel.WriteWorkbook(s.sheets, w); err != nil {
		log.Printf("[handleExport] FAILED - workbook write error: %v", err)
	}
}

// handleGetMapping returns the persisted column mapping.
func (s *Server) handleGetMapping(w http.ResponseWriter, r *http.Request) {
	m, err := s.store.Load(r.Context(), ports.DefaultMappingKey)
	if err != nil {
		writeError(w, err)
		return
	}
	if m == nil {
		writeError(w, errors.NotFound("mapping"))
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// handleSaveMapping persists the column mapping under the fixed key.
func (s *Server) handleSaveMapping(w http.ResponseWriter, r *http.Request) {
	var m pipeline.Mapping
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		writeError(w, errors.InvalidInput("invalid request body"))
		return
	}
	if m.IsZero() {
		writeError(w, errors.InvalidInput("mapping has no columns selected"))
		return
	}
	if err := s.store.Save(r.Context(), ports.DefaultMappingKey, m); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

package handlers

import (
	"bytes"
	"io"
	"net/http"
	"strconv"

	"github.com/agentstation/roster/internal/dashboard"
	"github.com/agentstation/roster/internal/server/filter"
	"github.com/agentstation/roster/internal/server/response"
)

// HandleVolunteers handles GET /api/v1/volunteers. It accepts the filter
// parameters plus limit and offset.
func (h *Handlers) HandleVolunteers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := filter.ParsePage(q)
	if err != nil {
		response.ErrorFromType(w, r, err)
		return
	}
	snap, err := h.snapshot(r.Context())
	if err != nil {
		response.ErrorFromType(w, r, err)
		return
	}

	rows := snap.view.Apply(filter.ParseFilter(q))
	start, end := page.Bounds(len(rows))
	out := append([]dashboard.Row{}, rows[start:end]...)
	response.Page(w, out, response.Meta{Total: len(rows), Limit: page.Limit, Offset: page.Offset})
}

// HandleStats handles GET /api/v1/stats: KPIs and distributions of the
// filtered rows.
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	snap, err := h.snapshot(r.Context())
	if err != nil {
		response.ErrorFromType(w, r, err)
		return
	}
	q := r.URL.Query()
	rows := snap.view.Apply(filter.ParseFilter(q))
	response.OK(w, snap.view.ComputeStats(rows, filter.ParseStatsOptions(q)))
}

// HandleFacets handles GET /api/v1/facets.
func (h *Handlers) HandleFacets(w http.ResponseWriter, r *http.Request) {
	snap, err := h.snapshot(r.Context())
	if err != nil {
		response.ErrorFromType(w, r, err)
		return
	}
	response.OK(w, snap.view.Facets())
}

// HandleExportCSV handles GET /api/v1/export.csv.
func (h *Handlers) HandleExportCSV(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, dashboard.ExportCSVName, "text/csv; charset=utf-8", (*dashboard.View).WriteCSV)
}

// HandleExportXLSX handles GET /api/v1/export.xlsx.
func (h *Handlers) HandleExportXLSX(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, dashboard.ExportXLSXName,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", (*dashboard.View).WriteXLSX)
}

type exportFunc func(v *dashboard.View, w io.Writer, rows []dashboard.Row) error

// export renders into a buffer first so a failure still yields a JSON
// error instead of a truncated download.
func (h *Handlers) export(w http.ResponseWriter, r *http.Request, name, contentType string, write exportFunc) {
	snap, err := h.snapshot(r.Context())
	if err != nil {
		response.ErrorFromType(w, r, err)
		return
	}
	rows := snap.view.Apply(filter.ParseFilter(r.URL.Query()))

	var buf bytes.Buffer
	if err := write(snap.view, &buf, rows); err != nil {
		response.ErrorFromType(w, r, err)
		return
	}
	attachment(w, name, contentType, buf.Len())
	_, _ = buf.WriteTo(w)
}

func attachment(w http.ResponseWriter, name, contentType string, size int) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(size))
	w.WriteHeader(http.StatusOK)
}

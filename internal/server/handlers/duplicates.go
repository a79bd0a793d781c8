package handlers

import (
	"bytes"
	"net/http"

	"github.com/agentstation/roster/internal/analysis"
	"github.com/agentstation/roster/internal/server/response"
)

// DuplicatesName is the download name of the duplicates workbook.
const DuplicatesName = "duplicados.xlsx"

type duplicateKind struct {
	analysis.KindDuplicates
	GroupCount int `json:"group_count"`
	RowCount   int `json:"row_count"`
}

func (h *Handlers) duplicates(r *http.Request) (*analysis.DuplicateReport, *snapshot, error) {
	snap, err := h.snapshot(r.Context())
	if err != nil {
		return nil, nil, err
	}
	snap.dupOnce.Do(func() {
		snap.dups = analysis.Duplicates(snap.master, h.deps.Resolver)
	})
	return snap.dups, snap, nil
}

// HandleDuplicates handles GET /api/v1/duplicates: the groups of master
// rows sharing a key, per key kind.
func (h *Handlers) HandleDuplicates(w http.ResponseWriter, r *http.Request) {
	rep, _, err := h.duplicates(r)
	if err != nil {
		response.ErrorFromType(w, r, err)
		return
	}
	kinds := make([]duplicateKind, len(rep.Kinds))
	for i, k := range rep.Kinds {
		kinds[i] = duplicateKind{KindDuplicates: k, GroupCount: len(k.Groups), RowCount: k.Rows()}
	}
	response.OK(w, map[string]any{"total": rep.Total, "kinds": kinds})
}

// HandleDuplicatesXLSX handles GET /api/v1/duplicates.xlsx: the summary
// sheet followed by one sheet per key kind.
func (h *Handlers) HandleDuplicatesXLSX(w http.ResponseWriter, r *http.Request) {
	rep, snap, err := h.duplicates(r)
	if err != nil {
		response.ErrorFromType(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := rep.WriteWorkbook(&buf, snap.master); err != nil {
		response.ErrorFromType(w, r, err)
		return
	}
	attachment(w, DuplicatesName,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Len())
	_, _ = buf.WriteTo(w)
}

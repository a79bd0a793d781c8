package handlers

import (
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/agentstation/roster/internal/datastore"
	"github.com/agentstation/roster/internal/server/events"
	"github.com/agentstation/roster/internal/server/response"
	"github.com/agentstation/roster/pkg/errors"
	"github.com/agentstation/roster/pkg/logging"
	"github.com/agentstation/roster/pkg/merge"
	"github.com/agentstation/roster/pkg/store"
)

// UploadField is the multipart field carrying the incoming batch.
const UploadField = "incoming"

// HandleReload handles POST /api/v1/reload. It drops the cached master and
// loads it again.
func (h *Handlers) HandleReload(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.invalidate()
	snap, err := h.snapshot(r.Context())
	if err != nil {
		response.ErrorFromType(w, r, err)
		return
	}
	data := map[string]any{
		"master": h.deps.Master.Location(),
		"rows":   snap.master.Len(),
	}
	h.broker.Publish(events.DatasetReloaded, data)
	response.OK(w, data)
}

// MergeResult is the response of a merge upload.
type MergeResult struct {
	Summary string        `json:"summary"`
	Report  *merge.Report `json:"report"`
	// Backup is where the previous master was copied, if anywhere.
	Backup string `json:"backup,omitempty"`
	DryRun bool   `json:"dry_run"`
	Rows   int    `json:"rows"`
}

// HandleMerge handles POST /api/v1/merge. The batch is a multipart file in
// the "incoming" field; its extension selects CSV or XLSX. Optional form
// fields: sheet, dry_run and backup.
func (h *Handlers) HandleMerge(w http.ResponseWriter, r *http.Request) {
	ctx := logging.WithOperation(r.Context(), "merge")
	log := logging.FromContext(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, h.deps.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.deps.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.JSON(w, http.StatusRequestEntityTooLarge, response.Fail("TOO_LARGE", "Upload too large", err.Error()))
			return
		}
		response.BadRequest(w, "Expected a multipart upload", err.Error())
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile(UploadField)
	if err != nil {
		response.BadRequest(w, "Missing upload field "+strconv.Quote(UploadField), err.Error())
		return
	}
	defer func() { _ = file.Close() }()

	sheet := r.FormValue("sheet")
	if sheet == "" {
		sheet = h.deps.IncomingSheet
	}
	name := filepath.Base(header.Filename)
	incoming, err := datastore.Read(name, file, sheet)
	if err != nil {
		response.ErrorFromType(w, r, err)
		return
	}
	dryRun, _ := strconv.ParseBool(r.FormValue("dry_run"))
	backup := h.deps.Backup
	if v := r.FormValue("backup"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			backup = b
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	master, err := h.loadMaster(ctx)
	if err != nil {
		response.ErrorFromType(w, r, err)
		return
	}
	merged, report, err := h.deps.Engine.Merge(ctx, master, incoming)
	if err != nil {
		response.ErrorFromType(w, r, err)
		return
	}

	res := MergeResult{Summary: report.Summary(), Report: report, DryRun: dryRun, Rows: merged.Len()}
	if dryRun {
		response.OK(w, res)
		return
	}

	saved, err := store.Persist(ctx, h.deps.Master, merged, backup)
	if err != nil {
		response.ErrorFromType(w, r, err)
		return
	}
	res.Backup = saved
	h.invalidate()

	log.Info().
		Str("incoming", name).
		Str("backup", saved).
		Msg(report.Summary())
	h.broker.Publish(events.DatasetMerged, map[string]any{
		"summary":   res.Summary,
		"incoming":  name,
		"new":       report.NewCount,
		"duplicate": report.DuplicateCount,
		"updated":   report.UpdatedCount,
		"rows":      res.Rows,
	})
	response.OK(w, res)
}

// Package merge folds an incoming batch of volunteer records into a master
// dataset.
//
// Each incoming record is matched against the master by priority keys.
// Duplicates only repair the master's country and interest areas. Records
// that match nothing are appended after every master row, reshaped to the
// master schema. The caller's datasets are never modified.
package merge

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agentstation/roster/pkg/columns"
	"github.com/agentstation/roster/pkg/errors"
	"github.com/agentstation/roster/pkg/identity"
	"github.com/agentstation/roster/pkg/logging"
	"github.com/agentstation/roster/pkg/normalize"
	"github.com/agentstation/roster/pkg/reconciler"
	"github.com/agentstation/roster/pkg/records"
)

// Engine merges datasets. It holds no state between calls.
type Engine struct {
	opts *options
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &Engine{opts: o}
}

// pass carries the per-call state of one merge.
type pass struct {
	out       *records.Dataset
	index     *identity.MasterIndex
	extractor *identity.Extractor
	catalogue *normalize.AreaCatalogue
	rec       *reconciler.Reconciler
	report    *Report
	log       *zerolog.Logger
}

// Merge returns master with incoming folded in, plus a report. Errors are
// returned before any data.
func (e *Engine) Merge(ctx context.Context, master, incoming *records.Dataset) (*records.Dataset, *Report, error) {
	if master == nil {
		return nil, nil, &errors.ValidationError{Field: "master", Message: "dataset is nil"}
	}
	if incoming == nil {
		return nil, nil, &errors.ValidationError{Field: "incoming", Message: "dataset is nil"}
	}

	p, err := e.prepare(ctx, master, incoming)
	if err != nil {
		return nil, nil, err
	}

	var staged []*records.Record
	for i, row := range incoming.Rows {
		if row == nil {
			continue
		}
		if rec := p.classify(e, i, row); rec != nil {
			staged = append(staged, rec)
		}
	}
	for _, rec := range staged {
		p.out.Append(rec)
	}

	r := p.report
	r.NewCount = len(staged)
	r.Duration = e.opts.now().Sub(r.StartedAt)

	p.log.Info().
		Int("incoming", r.IncomingTotal).
		Int("new", r.NewCount).
		Int("duplicates", r.DuplicateCount).
		Int("updated", r.UpdatedCount).
		Int("ambiguous", r.Ambiguous).
		Int("rows", p.out.Len()).
		Dur("duration", r.Duration).
		Msg("merge complete")

	return p.out, r, nil
}

func (e *Engine) prepare(ctx context.Context, master, incoming *records.Dataset) (*pass, error) {
	log := e.opts.logger
	if log == nil {
		log = logging.FromContext(ctx)
	}

	resolver, err := columns.NewResolver(e.opts.patterns)
	if err != nil {
		return nil, errors.WrapMerge("resolve", -1, err)
	}

	out := master.Clone()
	if len(out.Columns) == 0 {
		bootstrapSchema(out, incoming, e.opts.output)
		log.Debug().Strs("columns", out.Columns).Msg("master has no schema; using incoming columns")
	}

	masterCols := resolver.Resolve(out.Columns)
	incomingCols := resolver.Resolve(incoming.Columns)

	catalogue := normalize.NewAreaCatalogue(incoming.Columns, e.opts.areaPrefix)
	rec, err := reconciler.New(
		reconciler.WithColumns(e.opts.output),
		reconciler.WithCatalogueSize(catalogue.Size()),
	)
	if err != nil {
		return nil, errors.WrapMerge("classify", -1, err)
	}

	report := &Report{
		IncomingTotal: incoming.Len(),
		MatchesByKey:  make(map[identity.KeyKind]int),
		StartedAt:     e.opts.now().UTC(),
	}
	report.Warnings = append(report.Warnings, masterCols.Warnings(datasetName(master, "master"))...)
	report.Warnings = append(report.Warnings, incomingCols.Warnings(datasetName(incoming, "incoming"))...)
	if catalogue.Size() == 0 {
		report.Warnings = append(report.Warnings, datasetName(incoming, "incoming")+": no interest-area columns found; areas are not reconciled")
	}
	for _, w := range report.Warnings {
		log.Warn().Msg(w)
	}

	return &pass{
		out:       out,
		index:     identity.BuildIndex(out, identity.NewExtractor(masterCols)),
		extractor: identity.NewExtractor(incomingCols),
		catalogue: catalogue,
		rec:       rec,
		report:    report,
		log:       log,
	}, nil
}

// classify reconciles a duplicate in place, or returns the staged record
// for a new one.
func (p *pass) classify(e *Engine, i int, row *records.Record) *records.Record {
	keys := p.extractor.Keys(row)
	country, _ := normalize.FirstCountry(row, e.opts.candidates, e.opts.canon)

	match, ok := p.index.FindMatch(keys)
	if !ok {
		p.log.Debug().Int("incoming_row", i).Msg("new record")
		return p.stage(e, row, country)
	}

	p.report.DuplicateCount++
	p.report.MatchesByKey[match.Kind]++
	if match.Ambiguous() {
		p.report.Ambiguous++
		p.log.Debug().
			Int("incoming_row", i).
			Str("key", string(match.Kind)).
			Int("candidates", match.Candidates).
			Msg("ambiguous match; using first master row")
	}

	in := reconciler.Incoming{Country: country}
	if p.catalogue.Size() > 0 {
		in.Areas = p.catalogue.Select(row)
	}
	res := p.rec.Reconcile(p.out.Rows[match.Position], in)
	p.log.Debug().
		Int("incoming_row", i).
		Int("master_row", match.Position).
		Str("key", string(match.Kind)).
		Bool("changed", res.Changed).
		Msg("duplicate record")

	if res.Changed {
		p.report.UpdatedCount++
		p.report.Changes = append(p.report.Changes, RowChange{
			Row:      match.Position,
			Incoming: i,
			Key:      match.Kind,
			Changes:  res.Changes,
		})
	}
	return nil
}

// stage prepares a new record. Output columns are only set when the master
// schema has them; Append drops everything else.
func (p *pass) stage(e *Engine, row *records.Record, country string) *records.Record {
	rec := row.Clone()
	cols := e.opts.output
	if country != "" && p.out.HasColumn(cols.Country) {
		rec.Set(cols.Country, records.String(country))
	}
	// Without area columns in the batch the selection is empty, so new
	// rows get a blank list and a zero count.
	var sel normalize.AreaSelection
	if p.catalogue.Size() > 0 {
		sel = p.catalogue.Select(row)
	}
	if p.out.HasColumn(cols.AreasList) {
		rec.Set(cols.AreasList, records.String(sel.List()))
	}
	if p.out.HasColumn(cols.AreasCount) {
		rec.Set(cols.AreasCount, records.Int(sel.Count()))
	}
	return rec
}

// bootstrapSchema gives an empty master the incoming schema plus the
// output columns.
func bootstrapSchema(out, incoming *records.Dataset, cols reconciler.Columns) {
	for _, c := range incoming.Columns {
		out.AddColumn(c)
	}
	for _, c := range []string{cols.Country, cols.AreasList, cols.AreasCount} {
		out.AddColumn(c)
	}
}

func datasetName(ds *records.Dataset, fallback string) string {
	if ds.Name != "" {
		return ds.Name
	}
	return fallback
}

package handlers

import (
	"html/template"
	"net/http"

	"github.com/avvvet/cardscanner-services/internal/scansvc/models"
	"github.com/avvvet/cardscanner-services/internal/scansvc/pricing"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type slab struct {
	models.Scan
	Price models.PriceRange
}

type pageData struct {
	Service string
	Error   string
	Slabs   []slab
	Summary models.InventorySummary
}

var pageFuncs = template.FuncMap{
	"money": func(d decimal.Decimal) string { return pricing.Money(d) },
}

var pageTemplate = template.Must(template.New("page").Funcs(pageFuncs).Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Card Scanner</title></head>
<body>
<h1>Card Scanner</h1>
{{if .Error}}<p id="error"><strong>{{.Error}}</strong></p>{{end}}

<form action="/scan" method="post" enctype="multipart/form-data">
  <label>Front <input type="file" name="front" accept=".jpg,.jpeg,.png" required></label>
  <label>Back <input type="file" name="back" accept=".jpg,.jpeg,.png"></label>
  <label>Hint <input type="text" name="hint"></label>
  <label>Location <input type="text" name="location"></label>
  <button type="submit">Analyze</button>
</form>

<form action="/import" method="post" enctype="multipart/form-data">
  <label>Resume from CSV <input type="file" name="file" accept=".csv" required></label>
  <select name="mode"><option value="replace">replace</option><option value="append">append</option></select>
  <button type="submit">Import</button>
</form>

<h2>Inventory ({{.Summary.Count}})</h2>
<p>
  Valued: {{.Summary.Valued}}, unvalued: {{.Summary.Unvalued}}.
  Total: {{money .Summary.TotalLow}} - {{money .Summary.TotalHigh}} (mid {{money .Summary.TotalMid}}).
  Average: {{money .Summary.AverageMid}}.
</p>
{{if .Slabs}}
<p><a href="/export">Download CSV</a></p>
<form action="/clear" method="post"><button type="submit">Clear inventory</button></form>
{{end}}

{{range .Slabs}}
<div class="slab" id="{{.ID}}">
  <h3>{{.Record.Title}}</h3>
  <dl>
    <dt>Team</dt><dd>{{.Record.Team}}</dd>
    <dt>Card #</dt><dd>{{.Record.CardNumber}}</dd>
    <dt>Variation</dt><dd>{{.Record.Variation}}</dd>
    <dt>Condition</dt><dd>{{.Record.ConditionNotes}}</dd>
    <dt>Value</dt><dd>{{.Record.EstimatedRawValue}}{{if .Price.OK}} (mid {{money .Price.Mid}}){{end}}</dd>
    <dt>Location</dt><dd>{{.Record.ArchiveLocation}}</dd>
  </dl>
</div>
{{else}}
<p>No cards scanned yet.</p>
{{end}}
</body>
</html>
`))

// GET /
func (h *Handler) PageHandler(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, http.StatusOK, "")
}

// POST /scan
func (h *Handler) PageScanHandler(w http.ResponseWriter, r *http.Request) {
	req, err := h.scanRequest(w, r)
	if err == nil {
		_, err = h.scanService.Scan(r.Context(), req)
	}
	if err != nil {
		log.Errorf("Error [Handler.PageScanHandler] %s", err)
		code := statusFor(err)
		h.renderPage(w, code, "Analysis failed: "+clientError(err, code))
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// POST /import
func (h *Handler) PageImportHandler(w http.ResponseWriter, r *http.Request) {
	if _, err := h.importCSV(w, r); err != nil {
		log.Errorf("Error [Handler.PageImportHandler] %s", err)
		code := statusFor(err)
		h.renderPage(w, code, "Import failed: "+clientError(err, code))
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// POST /clear
func (h *Handler) PageClearHandler(w http.ResponseWriter, r *http.Request) {
	h.inventoryService.Clear()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) renderPage(w http.ResponseWriter, code int, message string) {
	scans := h.inventoryService.List()
	slabs := make([]slab, 0, len(scans))
	for _, s := range scans {
		slabs = append(slabs, slab{Scan: s, Price: pricing.ParseRange(s.Record.EstimatedRawValue)})
	}

	data := pageData{
		Service: h.serviceName,
		Error:   message,
		Slabs:   slabs,
		Summary: h.inventoryService.Summary(),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	if err := pageTemplate.Execute(w, data); err != nil {
		log.Errorf("Error [Handler.renderPage] %s", err)
	}
}

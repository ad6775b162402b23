// Package templates contains the server-rendered HTML for the landing and
// flow-visualization pages. Components are hand-written templ.Component
// values rather than generated code; the pages are small enough that the
// templ codegen step would be more machinery than markup.
package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
	"github.com/dataflow-project/dataflow/internal/transfer"
)

// pageStyle is shared by both pages.
const pageStyle = `
body { font-family: Arial, sans-serif; max-width: 900px; margin: 40px auto; padding: 20px; background-color: #f5f5f5; color: #333; }
h1 { color: #333; }
.card { background-color: white; padding: 15px; margin: 10px 0; border-radius: 5px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
.method { display: inline-block; padding: 4px 10px; border-radius: 3px; font-weight: bold; margin-right: 10px; color: white; }
.get { background-color: #61affe; }
.post { background-color: #49cc90; }
code { background-color: #f4f4f4; padding: 2px 5px; border-radius: 3px; }
table { width: 100%; border-collapse: collapse; }
th, td { text-align: left; padding: 8px; border-bottom: 1px solid #eee; }
.status-completed { color: #2e7d32; font-weight: bold; }
.status-failed { color: #c62828; font-weight: bold; }
.status-running { color: #1565c0; font-weight: bold; }
`

type endpoint struct {
	method string
	path   string
	desc   string
}

var endpoints = []endpoint{
	{"GET", "/health", "Check service health status"},
	{"POST", "/api/transfer", "Transfer data from source to destination database"},
	{"GET", "/api/transfer/{transfer_id}", "Get status of a data transfer operation"},
	{"GET", "/api/transfers", "List all transfer operations"},
	{"GET", "/api/databases", "List all configured database connections"},
	{"POST", "/api/databases/initialize", "Initialize sample databases with test data"},
	{"GET", "/flow", "Visualize the data flow diagram"},
}

// Landing renders the root page with the endpoint listing.
func Landing() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := writeHead(w, "DataFlow - Database Transfer Service"); err != nil {
			return err
		}
		fmt.Fprint(w, `<h1>DataFlow - Database Transfer Service</h1>`)
		fmt.Fprint(w, `<p>Transfer data between databases and visualize the flow.</p><h2>Available Endpoints</h2>`)
		for _, e := range endpoints {
			cls := "get"
			if e.method == "POST" {
				cls = "post"
			}
			fmt.Fprintf(w,
				`<div class="card"><span class="method %s">%s</span><code>%s</code><p>%s</p></div>`,
				cls, e.method, templ.EscapeString(e.path), templ.EscapeString(e.desc))
		}
		_, err := fmt.Fprint(w, `</body></html>`)
		return err
	})
}

// FlowDiagram renders the data flow visualization: one node per source and
// destination table, an edge per transfer, and a detail table underneath.
func FlowDiagram(transfers []transfer.Status) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := writeHead(w, "Data Flow Visualization"); err != nil {
			return err
		}
		fmt.Fprint(w, `<h1>Data Flow</h1>`)

		if len(transfers) == 0 {
			fmt.Fprint(w, `<div class="card"><p>No transfers yet. Start one with <code>POST /api/transfer</code>.</p></div>`)
			_, err := fmt.Fprint(w, `</body></html>`)
			return err
		}

		if err := writeFlowSVG(w, transfers); err != nil {
			return err
		}

		fmt.Fprint(w, `<div class="card"><table><tr><th>Transfer</th><th>Status</th><th>Source</th><th>Destination</th><th>Records</th></tr>`)
		for _, t := range transfers {
			fmt.Fprintf(w,
				`<tr><td><code>%s</code></td><td class="status-%s">%s</td><td>%s</td><td>%s</td><td>%d / %d</td></tr>`,
				templ.EscapeString(t.ID),
				templ.EscapeString(string(t.State)),
				templ.EscapeString(string(t.State)),
				templ.EscapeString(t.SourceTable),
				templ.EscapeString(t.DestinationTable),
				t.RecordsTransferred, t.TotalRecords)
		}
		_, err := fmt.Fprint(w, `</table></div></body></html>`)
		return err
	})
}

// writeFlowSVG draws source tables in a left column, destination tables in a
// right column, and an edge for every transfer between them.
func writeFlowSVG(w io.Writer, transfers []transfer.Status) error {
	sources := uniqueTables(transfers, func(t transfer.Status) string { return t.SourceTable })
	dests := uniqueTables(transfers, func(t transfer.Status) string { return t.DestinationTable })

	const (
		nodeW, nodeH = 200, 44
		colGap       = 380
		rowGap       = 70
		margin       = 20
	)
	rows := len(sources)
	if len(dests) > rows {
		rows = len(dests)
	}
	height := margin*2 + rows*rowGap

	fmt.Fprintf(w, `<div class="card"><svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">`,
		margin*2+nodeW+colGap, height)

	yOf := func(index map[string]int, table string) int {
		return margin + index[table]*rowGap + nodeH/2
	}

	srcIndex := indexOf(sources)
	dstIndex := indexOf(dests)

	// Edges first so nodes draw on top.
	for _, t := range transfers {
		x1 := margin + nodeW
		y1 := yOf(srcIndex, t.SourceTable)
		x2 := margin + colGap
		y2 := yOf(dstIndex, t.DestinationTable)
		fmt.Fprintf(w, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="#888" stroke-width="2"/>`, x1, y1, x2, y2)
		fmt.Fprintf(w, `<text x="%d" y="%d" font-size="12" fill="#555">%d records</text>`,
			(x1+x2)/2-30, (y1+y2)/2-6, t.RecordsTransferred)
	}

	drawNodes := func(tables []string, x int, fill string, label string) {
		for i, table := range tables {
			y := margin + i*rowGap
			fmt.Fprintf(w, `<rect x="%d" y="%d" width="%d" height="%d" rx="6" fill="%s"/>`, x, y, nodeW, nodeH, fill)
			fmt.Fprintf(w, `<text x="%d" y="%d" font-size="13" fill="white" text-anchor="middle">%s: %s</text>`,
				x+nodeW/2, y+nodeH/2+4, label, templ.EscapeString(table))
		}
	}
	drawNodes(sources, margin, "#1565c0", "source")
	drawNodes(dests, margin+colGap, "#2e7d32", "destination")

	_, err := fmt.Fprint(w, `</svg></div>`)
	return err
}

func uniqueTables(transfers []transfer.Status, key func(transfer.Status) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range transfers {
		k := key(t)
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}

func indexOf(tables []string) map[string]int {
	idx := make(map[string]int, len(tables))
	for i, t := range tables {
		idx[t] = i
	}
	return idx
}

func writeHead(w io.Writer, title string) error {
	_, err := fmt.Fprintf(w,
		`<!DOCTYPE html><html><head><title>%s</title><style>%s</style></head><body>`,
		templ.EscapeString(title), pageStyle)
	return err
}

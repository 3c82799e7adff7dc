package web

//go:generate templ generate -f pages.templ

import (
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/nudge/internal/nudge"
)

// render writes c as an HTML response.
func render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		slog.Error("render error", "path", r.URL.Path, "error", err)
	}
}

func runPath(id string) string {
	return "/runs/" + id
}

func downloadPath(id, table string) string {
	return runPath(id) + "/" + table
}

type summaryRow struct {
	label string
	value int
}

func summaryRows(s nudge.Summary) []summaryRow {
	return []summaryRow{
		{"Records", s.Records},
		{"Students", s.Groups},
		{"Students with several applications", s.Multiple},
		{"Start rows", s.StartRows},
		{"Stop rows", s.StopRows},
		{"Stopped by default", s.DefaultStops},
		{"Transferred out", s.TransferOuts},
		{"Issues", s.Issues},
	}
}

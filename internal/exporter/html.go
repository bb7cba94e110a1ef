package exporter

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nikbrunner/vidlib/internal/model"
	"github.com/nikbrunner/vidlib/internal/search"
	"github.com/nikbrunner/vidlib/internal/session"
)

// Options controls how the storefront is rendered.
type Options struct {
	Sort    search.SortKey
	Term    string
	Session session.Context
}

// DefaultExportPath returns the default export file path.
// Format: ~/Downloads/vidlib-storefront-YYYY-MM-DD.html
func DefaultExportPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("vidlib-storefront-%s.html", time.Now().Format("2006-01-02"))
	return filepath.Join(home, "Downloads", filename), nil
}

// ExportHTML renders every category of lib as a static storefront page.
// Each category lists its projection under opts, so hidden videos appear dimmed.
func ExportHTML(lib *model.Library, opts Options) string {
	var b strings.Builder

	theme := opts.Session.Theme
	if theme == "" {
		theme = "dark"
	}

	b.WriteString("<!DOCTYPE html>\n")
	b.WriteString("<html lang=\"en\">\n")
	b.WriteString("<head>\n")
	b.WriteString("<meta charset=\"UTF-8\">\n")
	b.WriteString("<title>Video Library</title>\n")
	b.WriteString("</head>\n")
	fmt.Fprintf(&b, "<body class=\"theme-%s\">\n", html.EscapeString(theme))

	query := search.Query{Term: opts.Term, Sort: opts.Sort}
	label := opts.Session.ActionLabel()
	for _, category := range lib.Categories() {
		writeCategory(&b, category, search.Project(lib.VideosInCategory(category), query), label)
	}

	b.WriteString("</body>\n")
	b.WriteString("</html>\n")

	return b.String()
}

func writeCategory(b *strings.Builder, category string, videos []model.Video, label string) {
	fmt.Fprintf(b, "<section class=\"category\" data-category=\"%s\">\n", html.EscapeString(category))
	fmt.Fprintf(b, "    <h1>%s Video Library</h1>\n", html.EscapeString(model.CategoryTitle(category)))
	b.WriteString("    <div class=\"grid\">\n")
	for _, v := range videos {
		writeCard(b, v, label)
	}
	b.WriteString("    </div>\n")
	b.WriteString("</section>\n")
}

func writeCard(b *strings.Builder, v model.Video, label string) {
	const indent = "        "

	classes := "video"
	if v.Featured {
		classes += " featured"
	}
	if !v.Visible {
		classes += " hidden"
	}

	fmt.Fprintf(b, "%s<article class=\"%s\" data-id=\"%s\" data-added=\"%d\">\n",
		indent, classes, html.EscapeString(v.ID), v.CreatedAt.Unix())
	if v.ThumbnailURL == "" {
		fmt.Fprintf(b, "%s    <div class=\"placeholder\">No thumbnail</div>\n", indent)
	} else {
		fmt.Fprintf(b, "%s    <img src=\"%s\" alt=\"%s\">\n",
			indent, html.EscapeString(v.ThumbnailURL), html.EscapeString(v.Title))
	}
	fmt.Fprintf(b, "%s    <h2>%s</h2>\n", indent, html.EscapeString(v.Title))
	fmt.Fprintf(b, "%s    <p class=\"length\">Length: %s</p>\n", indent, html.EscapeString(v.Length))
	fmt.Fprintf(b, "%s    <p class=\"price\">Price: $%.2f</p>\n", indent, v.Price)
	fmt.Fprintf(b, "%s    <button>%s</button>\n", indent, label)
	fmt.Fprintf(b, "%s</article>\n", indent)
}

package importer

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/nikbrunner/vidlib/internal/model"
)

// ParseStorefront parses storefront HTML and returns the videos it lists,
// each tagged with the category of its enclosing section.
func ParseStorefront(r io.Reader) ([]model.Video, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var videos []model.Video
	var parseErr error

	var parse func(n *html.Node, category string)
	parse = func(n *html.Node, category string) {
		if parseErr != nil {
			return
		}
		if n.Type == html.ElementNode {
			switch n.Data {
			case "section":
				if c := getAttr(n, "data-category"); c != "" {
					category = c
				}
			case "article":
				if hasClass(n, "video") {
					v, err := parseCard(n, category)
					if err != nil {
						parseErr = err
						return
					}
					videos = append(videos, v)
					return // Don't recurse into cards
				}
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			parse(c, category)
		}
	}

	parse(doc, "")
	if parseErr != nil {
		return nil, parseErr
	}
	return videos, nil
}

// parseCard reads one video card.
func parseCard(n *html.Node, category string) (model.Video, error) {
	v := model.Video{
		ID:        getAttr(n, "data-id"),
		Category:  category,
		Featured:  hasClass(n, "featured"),
		Visible:   !hasClass(n, "hidden"),
		CreatedAt: time.Now(),
	}
	if v.ID == "" {
		v.ID = model.GenerateUUID()
	}
	if added := getAttr(n, "data-added"); added != "" {
		if ts, err := strconv.ParseInt(added, 10, 64); err == nil {
			v.CreatedAt = time.Unix(ts, 0)
		}
	}

	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if c.Type == html.ElementNode {
			switch c.Data {
			case "img":
				v.ThumbnailURL = getAttr(c, "src")
			case "h2":
				v.Title = getTextContent(c)
			case "p":
				text := getTextContent(c)
				switch {
				case hasClass(c, "length"):
					v.Length = strings.TrimSpace(strings.TrimPrefix(text, "Length:"))
				case hasClass(c, "price"):
					v.Price = parsePrice(text)
				}
			}
		}
		for cc := c.FirstChild; cc != nil; cc = cc.NextSibling {
			walk(cc)
		}
	}
	walk(n)

	if v.Title == "" {
		return model.Video{}, fmt.Errorf("video %q: %w", v.ID, &model.ValidationError{Field: "title", Reason: "missing"})
	}
	return v, nil
}

// parsePrice reads "Price: $19.99"; unparsable prices become zero.
func parsePrice(text string) float64 {
	text = strings.TrimSpace(strings.TrimPrefix(text, "Price:"))
	text = strings.TrimPrefix(text, "$")
	price, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || price < 0 {
		return 0
	}
	return price
}

// getTextContent returns the text content of a node.
func getTextContent(n *html.Node) string {
	var text strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(text.String())
}

// getAttr returns the value of an attribute, case-insensitive.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if strings.EqualFold(attr.Key, key) {
			return attr.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(getAttr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// Package report presents the counters of a rewrite run.
package report

import (
	"fmt"
	"strconv"

	"github.com/dgallion1/dnrewrite/internal/doctree"
	"github.com/dgallion1/dnrewrite/internal/rewrite"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// BannerID is the id of the injected banner element.
const BannerID = "dnr-banner"

// Summary renders the counters as plain text.
func Summary(res rewrite.Result) string {
	return fmt.Sprintf("Double Negatives:\n• Replaced: %d\n• Skipped (due to exclusions): %d\n", res.Replaced, res.Skipped)
}

const bannerKeyframes = `@keyframes dnr-banner-fade {
  0% { opacity: 0; }
  6% { opacity: 1; }
  94% { opacity: 1; }
  100% { opacity: 0; visibility: hidden; }
}`

const (
	bannerStyle = "position: fixed; top: 50%; left: 50%; transform: translate(-50%, -50%); z-index: 999999; " +
		"background: #E6F2E8; color: #2C3E2F; padding: 20px 30px; border-radius: 8px; " +
		"box-shadow: 0 4px 12px rgba(0,0,0,0.15); " +
		`font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif; font-size: 16px; ` +
		"opacity: 0; animation: dnr-banner-fade 5.3s ease forwards; pointer-events: none;"
	titleStyle         = "font-weight: bold; margin-bottom: 12px;"
	lineStyle          = "display: flex; align-items: center; gap: 8px;"
	badgeStyle         = "border-radius: 10px; padding: 2px 8px; font-size: 14px; font-weight: bold; min-width: 24px; text-align: center;"
	replacedBadgeColor = "background: #F5F1E1; color: #320;"
	skippedBadgeColor  = "background: #F7DCC6; color: #361F00;"
)

// InjectBanner appends a transient banner showing res to the document body.
// The banner fades in, stays for about five seconds and fades out. A banner
// from an earlier run is replaced. Nothing is added when res is empty or the
// document has no body; the return value reports whether a banner was added.
func InjectBanner(doc *html.Node, res rewrite.Result) bool {
	body := rewrite.FindBody(doc)
	if body == nil {
		return false
	}
	RemoveBanner(doc)
	if res.Empty() {
		return false
	}

	banner := styled(atom.Div, bannerStyle)
	banner.Attr = append(banner.Attr,
		html.Attribute{Key: "id", Val: BannerID},
		html.Attribute{Key: rewrite.MarkerAttr, Val: "banner"},
		html.Attribute{Key: "role", Val: "status"},
	)

	keyframes := doctree.Element(atom.Style)
	keyframes.AppendChild(doctree.Text(bannerKeyframes))
	banner.AppendChild(keyframes)

	title := styled(atom.Div, titleStyle)
	title.AppendChild(doctree.Text("Double Negatives:"))
	banner.AppendChild(title)

	banner.AppendChild(line("• Replaced:", res.Replaced, replacedBadgeColor, "margin-bottom: 8px;"))
	banner.AppendChild(line("• Skipped (due to exclusions):", res.Skipped, skippedBadgeColor, ""))

	body.AppendChild(banner)
	return true
}

// RemoveBanner deletes a previously injected banner, if any.
func RemoveBanner(doc *html.Node) {
	if b := findBanner(doc); b != nil && b.Parent != nil {
		b.Parent.RemoveChild(b)
	}
}

func line(label string, count int, color, extra string) *html.Node {
	l := styled(atom.Div, lineStyle+" "+extra)
	text := doctree.Element(atom.Span)
	text.AppendChild(doctree.Text(label))
	l.AppendChild(text)

	badge := styled(atom.Span, color+" "+badgeStyle)
	badge.AppendChild(doctree.Text(strconv.Itoa(count)))
	l.AppendChild(badge)
	return l
}

func styled(a atom.Atom, style string) *html.Node {
	n := doctree.Element(a)
	n.Attr = []html.Attribute{{Key: "style", Val: style}}
	return n
}

func findBanner(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	if n.Type == html.ElementNode {
		for _, a := range n.Attr {
			if a.Key == "id" && a.Val == BannerID {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBanner(c); b != nil {
			return b
		}
	}
	return nil
}

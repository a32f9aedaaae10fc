package browser

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"omnivox-backend/pkg/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// Page is one fetched and parsed html page.
type Page struct {
	browser *Browser
	url     *url.URL
	doc     *goquery.Document
}

// NewPage parses html as if it had been fetched from pageUrl, it is used to feed fixtures
// to adapters.
func NewPage(b *Browser, pageUrl, html string) (*Page, error) {
	parsed, err := url.Parse(pageUrl)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	return &Page{browser: b, url: parsed, doc: doc}, nil
}

func (p *Page) URL() *url.URL {
	return p.url
}

func (p *Page) Document() *goquery.Document {
	return p.doc
}

// Resolve resolves ref relative to this page, the way a link on the page would.
func (p *Page) Resolve(ref string) (*url.URL, error) {
	parsed, err := url.Parse(ref)
	if err != nil {
		return nil, err
	}
	return p.url.ResolveReference(parsed), nil
}

func (p *Page) FindOne(selector string) (Node, bool) {
	return findOne(p, p.doc.Selection, selector)
}

func (p *Page) FindAll(selector string) []Node {
	return findAll(p, p.doc.Selection, selector)
}

func (p *Page) Has(selector string) bool {
	return p.doc.Find(selector).Length() > 0
}

// Refresh fetches the page again with a GET.
func (p *Page) Refresh(ctx context.Context) (*Page, error) {
	if p.browser == nil {
		return nil, fmt.Errorf("refresh %s: page is detached from a browser", p.url)
	}
	return p.browser.Get(ctx, p.url.String())
}

// Node is a single element of a page.
type Node struct {
	page *Page
	sel  *goquery.Selection
}

func findOne(page *Page, sel *goquery.Selection, selector string) (Node, bool) {
	found := sel.Find(selector).First()
	if found.Length() == 0 {
		return Node{}, false
	}
	return Node{page: page, sel: found}, true
}

func findAll(page *Page, sel *goquery.Selection, selector string) []Node {
	found := sel.Find(selector)
	nodes := make([]Node, 0, found.Length())
	found.Each(func(_ int, s *goquery.Selection) {
		nodes = append(nodes, Node{page: page, sel: s})
	})
	return nodes
}

func (n Node) Selection() *goquery.Selection {
	return n.sel
}

// Text is the cleaned text of the node and all its descendants.
func (n Node) Text() string {
	return htmlutil.CleanText(n.sel.Text())
}

// OwnText is the cleaned text of the node's direct text children only.
func (n Node) OwnText() string {
	if len(n.sel.Nodes) == 0 {
		return ""
	}
	return htmlutil.CleanText(htmlutil.GetOwnText(n.sel.Nodes[0]))
}

func (n Node) Attr(name string) (string, bool) {
	return n.sel.Attr(name)
}

func (n Node) FindOne(selector string) (Node, bool) {
	return findOne(n.page, n.sel, selector)
}

func (n Node) FindAll(selector string) []Node {
	return findAll(n.page, n.sel, selector)
}

func (n Node) Has(selector string) bool {
	return n.sel.Find(selector).Length() > 0
}

// Cell returns the i-th (zero based) td child of a table row.
func (n Node) Cell(i int) (Node, bool) {
	cell := n.sel.ChildrenFiltered("td").Eq(i)
	if cell.Length() == 0 {
		return Node{}, false
	}
	return Node{page: n.page, sel: cell}, true
}

// Click follows the node's href relative to its page.
func (n Node) Click(ctx context.Context) (*Page, error) {
	href, ok := n.sel.Attr("href")
	href = strings.TrimSpace(href)
	if !ok || href == "" || strings.HasPrefix(href, "javascript:") {
		return nil, fmt.Errorf("click: element <%s> has no followable href", goquery.NodeName(n.sel))
	}
	if n.page == nil || n.page.browser == nil {
		return nil, fmt.Errorf("click: page is detached from a browser")
	}
	target, err := n.page.Resolve(href)
	if err != nil {
		return nil, fmt.Errorf("click: resolve '%s': %w", href, err)
	}
	return n.page.browser.Get(ctx, target.String())
}

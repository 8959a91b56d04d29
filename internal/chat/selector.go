package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/voltera/site-backend/internal/knowledge"
	"github.com/voltera/site-backend/internal/pages"
	"github.com/voltera/site-backend/internal/platform/logger"
)

const DefaultMaxSnippets = 5

type ProductRef struct {
	ID       string
	Name     string
	Category string
}

// ProductLookup resolves catalog products. A nil ref with nil error means unknown id.
type ProductLookup interface {
	GetProductByID(ctx context.Context, id string) (*ProductRef, error)
}

type SnippetSearcher interface {
	Search(query string, maxResults int) []knowledge.Snippet
}

type PageResolver interface {
	Resolve(path string) (pages.PageContext, bool)
}

type AssembledContext struct {
	// Text is the framing line (if any) followed by one snippet per line.
	Text         string
	SnippetCount int
	Framing      string
	Snippets     []string
}

func (a AssembledContext) Empty() bool {
	return a.Framing == "" && a.SnippetCount == 0
}

type Selector struct {
	log         *logger.Logger
	snippets    SnippetSearcher
	products    ProductLookup
	pages       PageResolver
	maxSnippets int
}

// NewSelector wires the context selector. products and pages may be nil.
func NewSelector(log *logger.Logger, snippets SnippetSearcher, products ProductLookup, pages PageResolver, maxSnippets int) *Selector {
	if maxSnippets <= 0 {
		maxSnippets = DefaultMaxSnippets
	}
	return &Selector{
		log:         log.With("component", "ChatContextSelector"),
		snippets:    snippets,
		products:    products,
		pages:       pages,
		maxSnippets: maxSnippets,
	}
}

// SelectContext never fails: unknown products, lookup errors and unmapped
// paths all degrade to no framing.
func (s *Selector) SelectContext(ctx context.Context, query, productID, pagePath string, maxSnippets int) AssembledContext {
	if maxSnippets <= 0 {
		maxSnippets = s.maxSnippets
	}

	searchQuery := strings.TrimSpace(query)
	var framing string

	if product := s.resolveProduct(ctx, productID); product != nil {
		framing = productFraming(product)
		searchQuery = strings.TrimSpace(strings.Join([]string{searchQuery, product.Name, product.Category}, " "))
	} else if pc, ok := s.resolvePage(pagePath); ok {
		framing = pageFraming(pc)
	}

	var found []knowledge.Snippet
	if s.snippets != nil {
		found = s.snippets.Search(searchQuery, maxSnippets)
	}
	if len(found) > maxSnippets {
		found = found[:maxSnippets]
	}

	out := AssembledContext{Framing: framing, SnippetCount: len(found)}
	lines := make([]string, 0, len(found)+1)
	if framing != "" {
		lines = append(lines, framing)
	}
	for _, sn := range found {
		out.Snippets = append(out.Snippets, sn.Text)
		lines = append(lines, sn.Text)
	}
	out.Text = strings.Join(lines, "\n")
	return out
}

func (s *Selector) resolveProduct(ctx context.Context, productID string) *ProductRef {
	id := strings.TrimSpace(productID)
	if id == "" || s.products == nil {
		return nil
	}
	ref, err := s.products.GetProductByID(ctx, id)
	if err != nil {
		s.log.Warn("product lookup failed; continuing without product framing", "product_id", id, "error", err)
		return nil
	}
	if ref == nil || strings.TrimSpace(ref.Name) == "" {
		s.log.Debug("unknown product id", "product_id", id)
		return nil
	}
	return ref
}

func (s *Selector) resolvePage(pagePath string) (pages.PageContext, bool) {
	if strings.TrimSpace(pagePath) == "" || s.pages == nil {
		return pages.PageContext{}, false
	}
	pc, ok := s.pages.Resolve(pagePath)
	if !ok {
		s.log.Debug("unmapped page path", "page_path", pagePath)
	}
	return pc, ok
}

func productFraming(p *ProductRef) string {
	if c := strings.TrimSpace(p.Category); c != "" {
		return fmt.Sprintf("The user is currently viewing the product \"%s\" in the %s category.", p.Name, c)
	}
	return fmt.Sprintf("The user is currently viewing the product \"%s\".", p.Name)
}

func pageFraming(pc pages.PageContext) string {
	if pc.Description != "" {
		return fmt.Sprintf("The user is currently on %s, which covers %s.", pc.DisplayName, pc.Description)
	}
	return fmt.Sprintf("The user is currently on %s.", pc.DisplayName)
}

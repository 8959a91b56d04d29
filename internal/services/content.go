package services

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/voltera/site-backend/internal/platform/apierr"
	"github.com/voltera/site-backend/internal/platform/logger"
)

type Sector struct {
	Slug    string `yaml:"slug" json:"slug"`
	Name    string `yaml:"name" json:"name"`
	Summary string `yaml:"summary" json:"summary"`
}

type PageSection struct {
	Heading string `yaml:"heading" json:"heading"`
	Body    string `yaml:"body" json:"body"`
}

type Page struct {
	Slug     string        `yaml:"slug" json:"slug"`
	Title    string        `yaml:"title" json:"title"`
	Summary  string        `yaml:"summary" json:"summary"`
	Sections []PageSection `yaml:"sections" json:"sections"`
}

// ContentService serves the static marketing copy. Content is read once at
// construction and never mutated.
type ContentService interface {
	Sectors(ctx context.Context) []Sector
	GetPage(ctx context.Context, slug string) (*Page, error)
}

type contentService struct {
	log     *logger.Logger
	sectors []Sector
	pages   map[string]*Page
}

func NewContentService(log *logger.Logger, raw []byte) (ContentService, error) {
	var f struct {
		Sectors []Sector `yaml:"sectors"`
		Pages   []Page   `yaml:"pages"`
	}
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse content: %w", err)
	}

	cs := &contentService{
		log:     log.With("service", "ContentService"),
		sectors: make([]Sector, 0, len(f.Sectors)),
		pages:   make(map[string]*Page, len(f.Pages)),
	}
	for _, s := range f.Sectors {
		s.Slug = strings.ToLower(strings.TrimSpace(s.Slug))
		if s.Slug == "" {
			return nil, fmt.Errorf("content: sector slug is required")
		}
		cs.sectors = append(cs.sectors, s)
	}
	for i := range f.Pages {
		p := f.Pages[i]
		p.Slug = strings.ToLower(strings.TrimSpace(p.Slug))
		if p.Slug == "" {
			return nil, fmt.Errorf("content: page slug is required")
		}
		if _, dup := cs.pages[p.Slug]; dup {
			return nil, fmt.Errorf("content: duplicate page %q", p.Slug)
		}
		if p.Sections == nil {
			p.Sections = []PageSection{}
		}
		cs.pages[p.Slug] = &p
	}
	cs.log.Debug("Content loaded", "sectors", len(cs.sectors), "pages", len(cs.pages))
	return cs, nil
}

func (cs *contentService) Sectors(ctx context.Context) []Sector {
	out := make([]Sector, len(cs.sectors))
	copy(out, cs.sectors)
	return out
}

func (cs *contentService) GetPage(ctx context.Context, slug string) (*Page, error) {
	key := strings.ToLower(strings.Trim(strings.TrimSpace(slug), "/"))
	p, ok := cs.pages[key]
	if !ok {
		return nil, apierr.NotFound("page_not_found", fmt.Errorf("page %q not found", slug))
	}
	cp := *p
	return &cp, nil
}

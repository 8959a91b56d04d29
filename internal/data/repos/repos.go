package repos

import (
	"github.com/voltera/site-backend/internal/data/repos/catalog"
	"github.com/voltera/site-backend/internal/data/repos/leads"
)

type ProductRepo = catalog.ProductRepo
type ProductFilter = catalog.ProductFilter
type CategoryCount = catalog.CategoryCount

type LeadRepo = leads.LeadRepo
type LeadFilter = leads.LeadFilter

var (
	NewProductRepo = catalog.NewProductRepo
	NewLeadRepo    = leads.NewLeadRepo
)

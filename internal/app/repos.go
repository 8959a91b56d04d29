package app

import (
	"gorm.io/gorm"

	"github.com/voltera/site-backend/internal/data/repos"
	"github.com/voltera/site-backend/internal/platform/logger"
)

type Repos struct {
	Product repos.ProductRepo
	Lead    repos.LeadRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Product: repos.NewProductRepo(db, log),
		Lead:    repos.NewLeadRepo(db, log),
	}
}

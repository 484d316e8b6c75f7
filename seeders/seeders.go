package seeders

import (
	"context"
	"fmt"

	"storefront/models"
	"storefront/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Seeder is a named data load that runs at most once per database.
type Seeder struct {
	Name string
	Run  func(ctx context.Context, tx *gorm.DB) error
}

type Runner struct {
	repo   repository.SeederRepository
	logger *zap.Logger
}

func NewRunner(repo repository.SeederRepository, logger *zap.Logger) *Runner {
	return &Runner{repo: repo, logger: logger}
}

// Run executes each seeder that has not run yet and stops at the first
// failure. A failed seeder leaves no rows behind.
func (r *Runner) Run(ctx context.Context, seeders ...Seeder) error {
	for _, s := range seeders {
		done, err := r.repo.HasRun(ctx, s.Name)
		if err != nil {
			return fmt.Errorf("check seeder %s: %w", s.Name, err)
		}
		if done {
			r.logger.Info("Skipping seeder, already executed", zap.String("seeder", s.Name))
			continue
		}

		r.logger.Info("Running seeder", zap.String("seeder", s.Name))
		if err := r.repo.RunOnce(ctx, s.Name, func(tx *gorm.DB) error { return s.Run(ctx, tx) }); err != nil {
			r.logger.Error("Seeder failed", zap.String("seeder", s.Name), zap.Error(err))
			return fmt.Errorf("seeder %s: %w", s.Name, err)
		}
		r.logger.Info("Seeder completed", zap.String("seeder", s.Name))
	}
	return nil
}

func Categories() Seeder {
	return Seeder{
		Name: "seed-categories",
		Run: func(ctx context.Context, tx *gorm.DB) error {
			repo := repository.NewGormCategoryRepository(tx)
			for _, c := range categorySeeds {
				description := c.Description
				if err := repo.Create(ctx, &models.Category{Name: c.Name, Slug: c.Slug, Description: &description}); err != nil {
					return fmt.Errorf("create category %s: %w", c.Slug, err)
				}
			}
			return nil
		},
	}
}

// Products links each product to categories created by Categories.
func Products() Seeder {
	return Seeder{
		Name: "seed-products",
		Run: func(ctx context.Context, tx *gorm.DB) error {
			categories := repository.NewGormCategoryRepository(tx)
			products := repository.NewGormProductRepository(tx)
			for _, p := range productSeeds {
				linked, err := categories.FindBySlugs(ctx, p.Categories)
				if err != nil {
					return fmt.Errorf("load categories for %s: %w", p.Slug, err)
				}
				if len(linked) != len(p.Categories) {
					return fmt.Errorf("product %s references unknown categories %v", p.Slug, p.Categories)
				}
				product := p.model()
				product.Categories = linked
				if err := products.Create(ctx, &product); err != nil {
					return fmt.Errorf("create product %s: %w", p.Slug, err)
				}
			}
			return nil
		},
	}
}

func (p productSeed) model() models.Product {
	product := models.Product{
		Title:           p.Title,
		Slug:            p.Slug,
		Description:     p.Description,
		CurrentPrice:    p.CurrentPrice,
		Images:          []string{p.Image},
		InStock:         true,
		ReviewCount:     p.ReviewCount,
		AvailableColors: p.Colors,
		AvailableSizes:  p.Sizes,
	}
	if p.OriginalPrice > 0 {
		original := p.OriginalPrice
		product.OriginalPrice = &original
	}
	if p.Rating > 0 {
		rating := p.Rating
		product.Rating = &rating
	}
	return product
}

// Owners promotes the given emails to the owner role. Emails without an
// account are skipped.
func Owners(emails []string, logger *zap.Logger) Seeder {
	return Seeder{
		Name: "create-admins",
		Run: func(ctx context.Context, tx *gorm.DB) error {
			if len(emails) == 0 {
				logger.Warn("No owner emails configured")
				return nil
			}
			n, err := repository.NewGormUserRepository(tx).PromoteByEmail(ctx, emails, models.RoleOwner)
			if err != nil {
				return err
			}
			logger.Info("Promoted users to owner", zap.Int64("updated", n), zap.Int("requested", len(emails)))
			return nil
		},
	}
}

// All returns the seeders in dependency order.
func All(ownerEmails []string, logger *zap.Logger) []Seeder {
	return []Seeder{Categories(), Products(), Owners(ownerEmails, logger)}
}

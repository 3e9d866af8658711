package mappers

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"course-store/internal/domain"
	"course-store/internal/providers/scalev"
)

const defaultCategory = "Course"

// ProductToCourses converts one Scalev product into 0..N canonical courses.
// Multi-variant products expand to one course per variant; everything else
// yields exactly one course, even when variant data is sparse. Warnings
// describe soft normalization issues (a missing price is valid data, not a
// failure).
func ProductToCourses(p scalev.Product) ([]domain.Course, []string) {
	if p.IsMultiple && len(p.Variants) > 0 {
		courses := make([]domain.Course, 0, len(p.Variants))
		var warnings []string

		for _, v := range p.Variants {
			price, ok := resolvePrice(v.Price, v.PriceBT, v.BasePrice)
			if !ok || price == 0 {
				warnings = append(warnings, fmt.Sprintf("no price for variant %q (%s)", v.Name, v.UniqueID))
			}

			courses = append(courses, domain.Course{
				VariantUniqueID: v.UniqueID,
				Name:            v.Name,
				Description:     firstNonEmpty(p.Description, p.RichDescription),
				Price:           price,
				ImageURL:        firstImage(v.SelfFileURLs, v.Images, p.Images),
				Slug:            Slugify(v.Name),
				Category:        firstNonEmpty(p.ItemTypeName, defaultCategory),
				ProductID:       int64(p.ID),
				ProductName:     p.Name,
				VariantID:       int64(v.ID),
				IsVariant:       true,
			})
		}
		return courses, warnings
	}

	var first scalev.Variant
	if len(p.Variants) > 0 {
		first = p.Variants[0]
	}

	var warnings []string
	price, ok := resolvePrice(first.Price, first.PriceBT, p.Price)
	if !ok || price == 0 {
		warnings = append(warnings, fmt.Sprintf("no price for product %q", p.Name))
	}

	// display stands in for unnamed products so the name and slug
	// never come out empty
	name := firstNonEmpty(p.Name, p.Display)

	course := domain.Course{
		// keep a stable identifier even when variant data is sparse
		VariantUniqueID: firstNonEmpty(first.UniqueID, p.UUID, p.ID.String()),
		Name:            name,
		Description:     firstNonEmpty(p.Description, p.RichDescription),
		Price:           price,
		ImageURL:        firstImage(first.SelfFileURLs, first.Images, p.Images),
		Slug:            Slugify(name),
		Category:        firstNonEmpty(p.ItemTypeName, defaultCategory),
		ProductID:       int64(p.ID),
		VariantID:       int64(first.ID),
		IsVariant:       false,
	}
	return []domain.Course{course}, warnings
}

// CoursesFromProducts flattens a product batch into the listing view:
// normalized, stripped of identifier-less entries, sorted by price.
func CoursesFromProducts(products []scalev.Product, logger *zap.Logger) []domain.Course {
	if logger == nil {
		logger = zap.NewNop()
	}

	var all []domain.Course
	for _, p := range products {
		courses, warnings := ProductToCourses(p)
		for _, w := range warnings {
			logger.Warn("course normalization", zap.String("detail", w))
		}
		all = append(all, courses...)
	}

	filtered := all[:0]
	for _, c := range all {
		if c.VariantUniqueID == "" {
			continue
		}
		filtered = append(filtered, c)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Price < filtered[j].Price
	})
	return filtered
}

// CourseDetail builds the detail view for one variant of a product,
// including a summary of sibling variants. When the requested variant id is
// not found, the product's first variant stands in; false means the product
// has no variants at all.
func CourseDetail(p scalev.Product, variantID string) (domain.Course, bool) {
	if len(p.Variants) == 0 {
		return domain.Course{}, false
	}

	variant := p.Variants[0]
	for _, v := range p.Variants {
		if v.UniqueID == variantID {
			variant = v
			break
		}
	}

	price, _ := resolvePrice(variant.Price, variant.PriceBT, variant.BasePrice)

	siblings := make([]domain.VariantSummary, 0, len(p.Variants))
	for _, v := range p.Variants {
		vp, _ := resolvePrice(v.Price, v.PriceBT, v.BasePrice)
		siblings = append(siblings, domain.VariantSummary{
			VariantUniqueID: v.UniqueID,
			Name:            v.Name,
			Price:           vp,
		})
	}

	return domain.Course{
		VariantUniqueID:   variant.UniqueID,
		Name:              variant.Name,
		Description:       firstNonEmpty(p.Description, p.RichDescription),
		Price:             price,
		ImageURL:          firstImage(variant.SelfFileURLs, variant.Images, p.Images),
		Slug:              Slugify(variant.Name),
		Category:          firstNonEmpty(p.ItemTypeName, defaultCategory),
		ProductID:         int64(p.ID),
		ProductName:       p.Name,
		VariantID:         int64(variant.ID),
		IsVariant:         true,
		AvailableVariants: siblings,
	}, true
}

// Slugify lowercases a name and collapses whitespace runs into hyphens.
// Slugs are display keys, not guaranteed unique.
func Slugify(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

// resolvePrice walks the price fields in priority order; the first one
// present and parseable wins. Negative values count as absent: a course
// price is never below zero, so a negative field is corrupt data and the
// next field in the chain gets a chance.
func resolvePrice(fields ...scalev.FlexNumber) (float64, bool) {
	for _, f := range fields {
		if v, ok := f.Value(); ok && v >= 0 {
			return v, true
		}
	}
	return 0, false
}

func firstImage(sources ...[]string) string {
	for _, imgs := range sources {
		if len(imgs) > 0 && imgs[0] != "" {
			return imgs[0]
		}
	}
	return ""
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

package export

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"course-store/internal/domain"
)

// Catalog CSV for marketing/reporting imports. Keep header order EXACT.
var catalogHeader = []string{
	"VARIANT_ID",
	"NAME",
	"SLUG",
	"CATEGORY",
	"PRICE",
	"PRODUCT_ID",
	"PRODUCT_NAME",
	"IMAGE_URL",
	"DESCRIPTION",
}

// WriteCatalogCSV writes the normalized course catalog as CSV.
func WriteCatalogCSV(w io.Writer, courses []domain.Course) error {
	cw := csv.NewWriter(w)
	// spreadsheet tooling expects CRLF
	cw.UseCRLF = true

	if err := cw.Write(catalogHeader); err != nil {
		return err
	}

	for _, c := range courses {
		if err := cw.Write(toCatalogRow(c)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCatalogCSVFile writes the catalog CSV to a file path.
func WriteCatalogCSVFile(path string, courses []domain.Course) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := WriteCatalogCSV(f, courses); err != nil {
		return err
	}
	return f.Sync()
}

func toCatalogRow(c domain.Course) []string {
	price := strconv.FormatFloat(c.Price, 'f', -1, 64)

	productID := ""
	if c.ProductID != 0 {
		productID = strconv.FormatInt(c.ProductID, 10)
	}

	return []string{
		c.VariantUniqueID, // VARIANT_ID
		c.Name,            // NAME
		c.Slug,            // SLUG
		c.Category,        // CATEGORY
		price,             // PRICE
		productID,         // PRODUCT_ID
		c.ProductName,     // PRODUCT_NAME
		c.ImageURL,        // IMAGE_URL
		c.Description,     // DESCRIPTION
	}
}

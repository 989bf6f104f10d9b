package productcontroller

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/scantagcandles/oremus-1/models"
	"github.com/scantagcandles/oremus-1/pricing"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"
	"go.uber.org/zap"
)

// parseProductRow reads one data row in the export layout. ok is false
// for rows that cannot become a product.
func parseProductRow(row *xlsx.Row) (models.CandleProduct, bool) {
	get := func(index int) string {
		if index < len(row.Cells) {
			return strings.TrimSpace(row.Cells[index].String())
		}
		return ""
	}

	name := get(1)
	price, err := decimal.NewFromString(get(4))
	if name == "" || err != nil || price.IsNegative() {
		return models.CandleProduct{}, false
	}

	size := pricing.Size(strings.ToLower(get(3)))
	switch size {
	case pricing.SizeSmall, pricing.SizeMedium, pricing.SizeLarge:
	default:
		return models.CandleProduct{}, false
	}

	product := models.CandleProduct{
		Name:        name,
		Description: get(2),
		Size:        size,
		Price:       price.Round(2),
		IsActive:    true,
	}
	if id, err := strconv.ParseUint(get(0), 10, 64); err == nil {
		product.ID = uint(id)
	}
	if v, err := strconv.Atoi(get(5)); err == nil {
		product.DurationHours = v
	}
	if v, err := strconv.ParseFloat(get(6), 64); err == nil {
		product.HeightCM = v
	}
	if v, err := strconv.ParseFloat(get(7), 64); err == nil {
		product.DiameterCM = v
	}
	if v, err := strconv.Atoi(get(8)); err == nil {
		product.WeightG = v
	}
	if v, err := strconv.ParseBool(strings.ToLower(get(9))); err == nil {
		product.IsActive = v
	}
	return product, true
}

// ImportProductsFromExcel upserts rows by id; rows without an id become new
// products. Rows with no name, a bad price or an unknown size are skipped.
func ImportProductsFromExcel(store Store, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		excelFileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Excel file is required"})
			return
		}

		file, err := excelFileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to open Excel file"})
			return
		}
		defer file.Close()

		xlFile, err := xlsx.OpenReaderAt(file, excelFileHeader.Size)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Failed to parse Excel file"})
			return
		}

		if len(xlFile.Sheets) == 0 || xlFile.Sheets[0].MaxRow < 2 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Excel file is empty or missing header row"})
			return
		}

		sheet := xlFile.Sheets[0]
		createdCount, updatedCount, skippedCount := 0, 0, 0

		for i := 1; i < sheet.MaxRow; i++ {
			product, ok := parseProductRow(sheet.Rows[i])
			if !ok {
				skippedCount++
				continue
			}
			created, err := store.SaveProduct(c.Request.Context(), &product)
			switch {
			case err != nil:
				log.Error("import product row failed", zap.Int("row", i+1), zap.String("name", product.Name), zap.Error(err))
				skippedCount++
			case created:
				createdCount++
			default:
				updatedCount++
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"created": createdCount,
			"updated": updatedCount,
			"skipped": skippedCount,
		})
	}
}

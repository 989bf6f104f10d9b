package productcontroller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/scantagcandles/oremus-1/models"
	"github.com/tealeg/xlsx"
)

// Store is the slice of the catalog the admin endpoints need.
type Store interface {
	AllProducts(ctx context.Context) ([]models.CandleProduct, error)
	SaveProduct(ctx context.Context, product *models.CandleProduct) (bool, error)
}

var headers = []string{
	"ID", "Name", "Description", "Size", "Price", "DurationHours",
	"HeightCM", "DiameterCM", "WeightG", "IsActive", "CreatedAt", "UpdatedAt",
}

const timeLayout = "2006-01-02 15:04:05"

func productsWorkbook(products []models.CandleProduct) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Candles")
	if err != nil {
		return nil, err
	}

	headerRow := sheet.AddRow()
	for _, h := range headers {
		headerRow.AddCell().SetValue(h)
	}

	for _, p := range products {
		row := sheet.AddRow()

		row.AddCell().SetValue(p.ID)
		row.AddCell().SetValue(p.Name)
		row.AddCell().SetValue(p.Description)
		row.AddCell().SetValue(string(p.Size))
		row.AddCell().SetValue(p.Price.StringFixed(2))
		row.AddCell().SetValue(p.DurationHours)
		row.AddCell().SetValue(p.HeightCM)
		row.AddCell().SetValue(p.DiameterCM)
		row.AddCell().SetValue(p.WeightG)
		row.AddCell().SetValue(p.IsActive)
		row.AddCell().SetValue(p.CreatedAt.Format(timeLayout))
		row.AddCell().SetValue(p.UpdatedAt.Format(timeLayout))
	}
	return file, nil
}

func ExportProductsToExcel(store Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := store.AllProducts(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch products"})
			return
		}

		file, err := productsWorkbook(products)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create Excel sheet"})
			return
		}

		c.Header("Content-Disposition", "attachment; filename=candles.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to write Excel file"})
			return
		}
	}
}

package handlers

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"app/models"
	"app/utils"
)

// HandleUploadProducts ingests a product catalog CSV. The upload is a full
// replace: the prior catalog and all forecast history are purged in the
// same transaction.
// POST /api/upload/products
func HandleUploadProducts(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "No file uploaded"})
	}

	f, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Failed to open uploaded file"})
	}
	defer f.Close()

	products, skipped, err := ParseProductsCSV(f)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}

	count, err := dataStore.ReplaceProducts(c.Context(), products)
	if err != nil {
		log.Printf("Error replacing product catalog: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to store product catalog"})
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Product catalog uploaded successfully",
		"count":   count,
		"skipped": skipped,
	})
}

// HandleUploadSales ingests a sales history CSV with the same full-replace
// semantics as the catalog upload.
// POST /api/upload/sales
func HandleUploadSales(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "No file uploaded"})
	}

	f, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Failed to open uploaded file"})
	}
	defer f.Close()

	records, skipped, err := ParseSalesCSV(f)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}

	count, err := dataStore.ReplaceSales(c.Context(), records)
	if err != nil {
		log.Printf("Error replacing sales history: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to store sales history"})
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Sales data uploaded successfully",
		"count":   count,
		"skipped": skipped,
	})
}

// header maps CSV column names (case-insensitive) to their index.
type header map[string]int

func readHeader(r *csv.Reader) (header, error) {
	cols, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	h := header{}
	for i, col := range cols {
		h[strings.ToLower(strings.TrimSpace(col))] = i
	}
	return h, nil
}

func (h header) get(row []string, name string) string {
	i, ok := h[strings.ToLower(name)]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// ParseProductsCSV decodes a catalog CSV. Expected columns: productId,
// name, category, region, unitPrice, currentStock, reorderThreshold.
// Rows with a blank productId are skipped, as are rows whose numeric
// fields fail to parse; the skip count is reported back to the caller.
func ParseProductsCSV(r io.Reader) ([]models.Product, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	h, err := readHeader(reader)
	if err != nil {
		return nil, 0, err
	}

	var products []models.Product
	skipped := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("malformed CSV: %w", err)
		}

		productID := h.get(row, "productId")
		if productID == "" {
			skipped++
			continue
		}

		unitPrice, errPrice := strconv.ParseFloat(orZero(h.get(row, "unitPrice")), 64)
		stock, errStock := strconv.Atoi(orZero(h.get(row, "currentStock")))
		threshold, errThreshold := strconv.Atoi(orDefault(h.get(row, "reorderThreshold"), "10"))
		if errPrice != nil || errStock != nil || errThreshold != nil {
			log.Printf("Skipping product row %q: unparseable numeric field", productID)
			skipped++
			continue
		}

		products = append(products, models.Product{
			ProductID:        productID,
			Name:             h.get(row, "name"),
			Category:         h.get(row, "category"),
			Region:           utils.StringPtrOrNull(h.get(row, "region")),
			UnitPrice:        unitPrice,
			CurrentStock:     stock,
			ReorderThreshold: threshold,
		})
	}
	return products, skipped, nil
}

// ParseSalesCSV decodes a sales history CSV. Expected columns: productId,
// date, quantity, region, unitPrice, revenue. The unitPrice column is
// optional; when absent it is derived from revenue and quantity.
func ParseSalesCSV(r io.Reader) ([]models.SalesRecord, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	h, err := readHeader(reader)
	if err != nil {
		return nil, 0, err
	}

	var records []models.SalesRecord
	skipped := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("malformed CSV: %w", err)
		}

		productID := h.get(row, "productId")
		if productID == "" {
			skipped++
			continue
		}

		date, errDate := parseDate(h.get(row, "date"))
		quantity, errQty := strconv.Atoi(orZero(h.get(row, "quantity")))
		revenue, errRev := strconv.ParseFloat(orZero(h.get(row, "revenue")), 64)
		if errDate != nil || errQty != nil || errRev != nil || quantity < 0 {
			log.Printf("Skipping sales row %q: invalid date or numeric field", productID)
			skipped++
			continue
		}

		unitPrice := 0.0
		if raw := h.get(row, "unitPrice"); raw != "" {
			unitPrice, err = strconv.ParseFloat(raw, 64)
			if err != nil {
				log.Printf("Skipping sales row %q: unparseable unitPrice", productID)
				skipped++
				continue
			}
		} else if quantity > 0 {
			unitPrice = revenue / float64(quantity)
		}

		records = append(records, models.SalesRecord{
			ProductID: productID,
			Date:      date,
			Quantity:  quantity,
			Region:    h.get(row, "region"),
			UnitPrice: unitPrice,
			Revenue:   revenue,
		})
	}
	return records, skipped, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func orZero(s string) string {
	if s == "" {
		return "0"
	}
	return s
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

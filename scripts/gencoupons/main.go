package main

import (
	"compress/gzip"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"prepkart/internal/model"

	"github.com/shopspring/decimal"
)

// Writes sample coupon seed files. Codes repeated across files show the
// later-file-wins merge: FESTIVE10 is 10% in file 1 and 15% in file 2.
func main() {
	dataDir := flag.String("dir", "data/coupons", "output directory")
	flag.Parse()

	if err := os.MkdirAll(*dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	now := time.Now().UTC().Truncate(24 * time.Hour)
	month := now.AddDate(0, 1, 0)
	quarter := now.AddDate(0, 3, 0)

	files := map[string][]model.CouponRequest{
		"coupons1.gz": {
			coupon("Welcome offer", "WELCOME50", 50, 0, month),
			coupon("Festive sale", "FESTIVE10", 10, 300, month),
			coupon("Mock test bundle", "QUIZ20", 20, 100, quarter),
		},
		"coupons2.gz": {
			coupon("Festive sale", "FESTIVE10", 15, 300, quarter),
			coupon("Book fair", "BOOKFAIR25", 25, 1000, month),
		},
	}

	for filename, coupons := range files {
		filePath := filepath.Join(*dataDir, filename)

		if err := writeCouponFile(filePath, coupons); err != nil {
			log.Fatalf("Failed to create %s: %v", filename, err)
		}

		fmt.Printf("Created %s with %d coupons\n", filePath, len(coupons))
	}

	fmt.Printf("\nSeed with COUPON_SEED_FILES=%s,%s\n",
		filepath.Join(*dataDir, "coupons1.gz"), filepath.Join(*dataDir, "coupons2.gz"))
}

func coupon(name, code string, percent, minimum int64, expiry time.Time) model.CouponRequest {
	return model.CouponRequest{
		Name:               name,
		Code:               code,
		DiscountPercentage: decimal.NewFromInt(percent),
		MinimumCartValue:   decimal.NewFromInt(minimum),
		ExpiryDate:         expiry,
	}
}

func writeCouponFile(filePath string, coupons []model.CouponRequest) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	enc := json.NewEncoder(gzipWriter)
	for _, c := range coupons {
		if err := enc.Encode(c); err != nil {
			return fmt.Errorf("failed to write coupon %s: %w", c.Code, err)
		}
	}

	return nil
}

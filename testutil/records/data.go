package records

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var baseTime = time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)

type fruit struct {
	name string
	code string
}

// The codes of Cherry and Kiwi are the only ones containing "CFE".
var fruits = []fruit{
	{"Apple", "APL-001"},
	{"Banana", "BAN-002"},
	{"Cherry", "CFE-003"},
	{"Date", "DAT-004"},
	{"Elderberry", "ELD-005"},
	{"Fig", "FIG-006"},
	{"Grape", "GRP-007"},
	{"Honeydew", "HON-008"},
	{"Kiwi", "KIW-CFE"},
	{"Lemon", "LEM-010"},
	{"Mango", "MNG-011"},
	{"Nectarine", "NEC-012"},
}

// Products returns 12 fruit products in alphabetical name order. Every third one is Inactive.
func Products() []Product {
	products := make([]Product, 0, len(fruits))

	for i, f := range fruits {
		status := StatusActive
		if (i+1)%3 == 0 {
			status = StatusInactive
		}

		products = append(products, Product{
			ID:        productID(i + 1),
			Code:      f.code,
			Name:      f.name,
			Status:    status,
			Price:     decimal.New(int64(150+i*25), -2),
			Quantity:  int64(10 * (i + 1)),
			Rating:    float64(i%5) + 0.5,
			Available: i%2 == 0,
			CreatedAt: baseTime.Add(time.Duration(i) * 24 * time.Hour),
		})
	}

	return products
}

// ProductsByStatus returns 3 Active and 2 Inactive products in a mixed order.
func ProductsByStatus() []Product {
	all := Products()
	statuses := []string{StatusActive, StatusInactive, StatusActive, StatusInactive, StatusActive}
	products := make([]Product, 0, len(statuses))

	for i, status := range statuses {
		p := all[i]
		p.Status = status
		products = append(products, p)
	}

	return products
}

// Names extracts the names in order.
func Names(products []Product) []string {
	names := make([]string, 0, len(products))
	for _, p := range products {
		names = append(names, p.Name)
	}

	return names
}

func productID(n int) uuid.UUID {
	return uuid.MustParse(fmt.Sprintf("00000000-0000-4000-8000-%012d", n))
}

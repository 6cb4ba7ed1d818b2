package service

import (
	"sort"
	"strings"

	"pos-service/internal/util"
)

// FieldErrors maps field names to validation messages. It is returned to
// the client verbatim as a 400 body.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return "validation failed: " + strings.Join(fields, ", ")
}

// ValidateItemInput checks a proposed inventory item or product write.
// Returns nil when the input is acceptable. Pure; no side effects beyond
// the rejection counters.
func ValidateItemInput(name string, price int64, quantity int) FieldErrors {
	errs := FieldErrors{}

	if strings.TrimSpace(name) == "" {
		errs["name"] = "Name cannot be empty or just spaces."
		util.InventoryWritesRejected.WithLabelValues("name").Inc()
	}
	if quantity < 0 {
		errs["quantity"] = "Quantity must be zero or greater."
		util.InventoryWritesRejected.WithLabelValues("quantity").Inc()
	}
	if price < 0 {
		errs["price"] = "Price must be zero or greater."
		util.InventoryWritesRejected.WithLabelValues("price").Inc()
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

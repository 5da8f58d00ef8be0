package export

import (
	"io"

	"github.com/gocarina/gocsv"

	"github.com/crmdesk/crmdesk/internal/domain"
)

const ContentTypeCSV = "text/csv"

// WriteCSV writes the header row followed by one row per customer
func WriteCSV(w io.Writer, customers []*domain.Customer) error {
	rows := Rows(customers)
	return gocsv.Marshal(&rows, w)
}

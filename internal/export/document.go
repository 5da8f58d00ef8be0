// Package export renders customer lists as CSV, XLSX and PDF attachments.
package export

import (
	"bytes"
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/gosimple/slug"

	"github.com/crmdesk/crmdesk/internal/domain"
	"github.com/crmdesk/crmdesk/internal/repository"
)

const TimeLayout = "2006-01-02 15:04:05"

var Columns = []string{"ID", "Name", "Email", "Phone", "Company", "Date Added"}

// Timestamp prints as TimeLayout in every export format
type Timestamp time.Time

func (t Timestamp) String() string {
	return time.Time(t).Format(TimeLayout)
}

func (t Timestamp) MarshalCSV() (string, error) {
	return t.String(), nil
}

// Row is one exported customer
type Row struct {
	ID        int64     `csv:"ID"`
	Name      string    `csv:"Name"`
	Email     string    `csv:"Email"`
	Phone     string    `csv:"Phone"`
	Company   string    `csv:"Company"`
	DateAdded Timestamp `csv:"Date Added"`
}

// Values returns the row's cells in Columns order
func (r Row) Values() []string {
	return []string{strconv.FormatInt(r.ID, 10), r.Name, r.Email, r.Phone, r.Company, r.DateAdded.String()}
}

func Rows(customers []*domain.Customer) []Row {
	rows := make([]Row, 0, len(customers))
	for _, c := range customers {
		rows = append(rows, Row{
			ID:        c.ID,
			Name:      c.Name,
			Email:     c.Email,
			Phone:     c.Phone,
			Company:   c.Company,
			DateAdded: Timestamp(c.CreatedAt),
		})
	}
	return rows
}

// Document is the printable customer list. It depends only on its inputs.
type Document struct {
	Title       string
	GeneratedAt time.Time
	Rows        []Row
}

func BuildDocument(customers []*domain.Customer, now time.Time) *Document {
	return &Document{
		Title:       "Customer List",
		GeneratedAt: now,
		Rows:        Rows(customers),
	}
}

var documentTemplate = template.Must(template.New("customers").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: Helvetica, Arial, sans-serif; font-size: 11px; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #999; padding: 4px; text-align: left; }
th { background: #e8e8e8; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p>Generated {{.GeneratedAt.Format "2006-01-02 15:04:05"}}</p>
<table>
<thead><tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{- range .Rows}}
<tr>{{range .Values}}<td>{{.}}</td>{{end}}</tr>
{{- end}}
</tbody>
</table>
</body>
</html>
`))

// HTML renders the document for HTML based PDF engines
func (d *Document) HTML() ([]byte, error) {
	var buf bytes.Buffer
	err := documentTemplate.Execute(&buf, struct {
		*Document
		Columns []string
	}{d, Columns})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Filename names an attachment after the filter, e.g. customers-acme.csv
func Filename(filter repository.CustomerFilter, ext string) string {
	parts := []string{"customers"}
	for _, s := range []string{filter.Search, filter.Company} {
		if part := slug.Make(s); part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, "-") + "." + ext
}

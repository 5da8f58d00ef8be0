package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crmdesk/crmdesk/internal/crm"
	"github.com/crmdesk/crmdesk/internal/repository"
)

func TestPrintReport(t *testing.T) {
	report := &crm.Report{
		TotalCustomers: 5,
		ByCompany: []repository.CompanyCount{
			{Company: "Acme", Total: 3},
			{Company: "", Total: 2},
		},
		Orders: crm.OrderStats{Count: 2, Sum: 30, Mean: 15, Median: 15},
	}

	var buf bytes.Buffer
	require.NoError(t, printReport(&buf, report))

	out := buf.String()
	assert.Contains(t, out, "Total customers: 5")
	assert.Contains(t, out, "Acme")
	assert.Contains(t, out, "(none)")
	assert.Contains(t, out, "sum 30.00")
}

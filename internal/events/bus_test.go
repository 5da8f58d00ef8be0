package events

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crmdesk/crmdesk/internal/repository"
	"github.com/crmdesk/crmdesk/internal/testkit"
)

func TestAuditEventsArePersisted(t *testing.T) {
	logs := repository.NewGormOprLogRepository(testkit.NewDB(t))
	bus := NewBus()
	require.NoError(t, bus.SubscribeAudit(logs))

	bus.PublishAudit(Audit{Operator: "admin", IP: "10.0.0.1", Action: ActionCreateCustomer, Detail: "Alice"})
	bus.PublishAudit(Audit{Operator: "admin", IP: "10.0.0.1", Action: ActionDeleteCustomer, Detail: strings.Repeat("x", 600)})
	bus.Wait()

	rows, err := logs.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	actions := []string{rows[0].OptAction, rows[1].OptAction}
	assert.ElementsMatch(t, []string{ActionCreateCustomer, ActionDeleteCustomer}, actions)
	for _, row := range rows {
		assert.Equal(t, "admin", row.OprName)
		assert.Equal(t, "10.0.0.1", row.OprIp)
		assert.LessOrEqual(t, len(row.OptDesc), 512)
	}
}

func TestPublishWithoutSubscribers(t *testing.T) {
	bus := NewBus()
	assert.NotPanics(t, func() {
		bus.PublishAudit(Audit{Action: ActionLogin})
		bus.Wait()
	})
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"abcdef", 3, "abc"},
		{"añb", 2, "a"},
		{"añb", 3, "añ"},
		{"日本", 4, "日"},
		{"日本", 2, ""},
	}
	for _, tt := range tests {
		got := truncate(tt.in, tt.n)
		assert.Equal(t, tt.want, got, tt.in)
		assert.True(t, utf8.ValidString(got))
	}

	long := strings.Repeat("é", 300)
	got := truncate(long, 512)
	assert.True(t, utf8.ValidString(got))
	assert.Len(t, got, 512)
}

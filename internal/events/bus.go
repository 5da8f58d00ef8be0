// Package events carries domain notifications between handlers and background subscribers.
package events

import (
	"context"
	"time"
	"unicode/utf8"

	EventBus "github.com/asaskevich/EventBus"
	"go.uber.org/zap"

	"github.com/crmdesk/crmdesk/internal/domain"
	"github.com/crmdesk/crmdesk/internal/repository"
)

const TopicAudit = "crm:audit"

// Audit actions published by the web layer
const (
	ActionLogin          = "login"
	ActionLogout         = "logout"
	ActionRegister       = "register"
	ActionCreateCustomer = "customer.create"
	ActionUpdateCustomer = "customer.update"
	ActionDeleteCustomer = "customer.delete"
	ActionCreateOrder    = "order.create"
	ActionUpdateOrder    = "order.update"
	ActionDeleteOrder    = "order.delete"
	ActionExport         = "export"
)

// Audit describes one operator action
type Audit struct {
	Operator string
	IP       string
	Action   string
	Detail   string
}

type Bus struct {
	bus EventBus.Bus
}

func NewBus() *Bus {
	return &Bus{bus: EventBus.New()}
}

func (b *Bus) PublishAudit(a Audit) {
	b.bus.Publish(TopicAudit, a)
}

// Wait blocks until every queued async handler has run
func (b *Bus) Wait() {
	b.bus.WaitAsync()
}

// SubscribeAudit persists every audit event as an OprLog row. Handlers run
// one at a time off the request goroutine.
func (b *Bus) SubscribeAudit(logs repository.OprLogRepository) error {
	recorder := &auditRecorder{logs: logs}
	return b.bus.SubscribeAsync(TopicAudit, recorder.handle, true)
}

type auditRecorder struct {
	logs repository.OprLogRepository
}

func (r *auditRecorder) handle(a Audit) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := r.logs.Create(ctx, &domain.OprLog{
		OprName:   a.Operator,
		OprIp:     a.IP,
		OptAction: a.Action,
		OptDesc:   truncate(a.Detail, 512),
		OptTime:   time.Now(),
	})
	if err != nil {
		zap.L().Error("write audit log failed",
			zap.String("action", a.Action), zap.Error(err))
	}
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

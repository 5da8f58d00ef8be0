package app

import (
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/crmdesk/crmdesk/config"
	"github.com/crmdesk/crmdesk/internal/auth"
	"github.com/crmdesk/crmdesk/internal/crm"
	"github.com/crmdesk/crmdesk/internal/events"
	"github.com/crmdesk/crmdesk/internal/repository"
)

// DBProvider provides database access
type DBProvider interface {
	DB() *gorm.DB
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// ServiceProvider exposes the domain services built over the database
type ServiceProvider interface {
	Auth() *auth.Service
	CRM() *crm.Service
	OprLogs() repository.OprLogRepository
	Bus() *events.Bus
}

// AppContext combines all provider interfaces for full application context
type AppContext interface {
	DBProvider
	ConfigProvider
	SchedulerProvider
	ServiceProvider

	MigrateDB(track bool) error
	InitDb()
	DropAll()
}

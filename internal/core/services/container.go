package services

import (
	portsrepo "github.com/SscSPs/ledgerify/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledgerify/internal/core/ports/services"
	"github.com/SscSPs/ledgerify/internal/platform/config"
	"github.com/SscSPs/ledgerify/internal/utils/accounting"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, opts ...ServiceOption) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// The event log is used by every writer, so it comes first
	container.EventLog = NewEventLogService(repos.EventLogRepo, repos.UserRepo, opts...)
	container.User = NewUserService(repos.UserRepo, container.EventLog, opts...)
	container.Auth = NewAuthService(cfg, repos.UserRepo, opts...)

	container.Balance = NewBalanceService(repos.EntryRepo, repos.AccountRepo, repos.TxManager, opts...)
	container.Account = NewAccountService(repos.AccountRepo, repos.EntryRepo, repos.TxManager, container.EventLog, opts...)
	container.Entry = NewEntryService(repos.EntryRepo, repos.AccountRepo, container.User, container.Balance, container.EventLog, opts...)
	container.Reporting = NewReportingService(repos.AccountRepo, repos.EntryRepo, accounting.NewReportGenerator(), opts...)

	return container
}

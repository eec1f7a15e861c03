package pgsql

import (
	portsrepo "github.com/SscSPs/ledgerify/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every PostgreSQL repository over one pool.
func NewRepositoryProvider(db DB) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:  newPgxAccountRepository(db),
		EntryRepo:    newPgxEntryRepository(db),
		EventLogRepo: newPgxEventLogRepository(db),
		UserRepo:     newPgxUserRepository(db),
		TxManager:    NewTxManager(db),
	}
}

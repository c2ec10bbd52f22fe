package db

import "gorm.io/gorm"

type Repositories struct {
	Users  *UserRepository
	Ledger *LedgerRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:  NewUserRepository(database),
		Ledger: NewLedgerRepository(database),
	}
}

package repository

import (
	"hopskip/internal/database"
	"hopskip/internal/search"
)

// Repositories aggregates all data access objects.
type Repositories struct {
	Bookings   *BookingRepository
	Users      *UserRepository
	Wizards    *WizardRepository
	Activities *ActivityRepository
}

func NewRepositories(db *database.DB, es *search.ElasticsearchClient) *Repositories {
	return &Repositories{
		Bookings:   NewBookingRepository(db),
		Users:      NewUserRepository(db),
		Wizards:    NewWizardRepository(db),
		Activities: NewActivityRepository(es),
	}
}

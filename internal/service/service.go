package service

import (
	"hopskip/internal/external"
	"hopskip/internal/lifecycle"
	"hopskip/internal/messaging"
	"hopskip/internal/policy"
	"hopskip/internal/repository"
)

type Services struct {
	Bookings   *BookingService
	Wizards    *WizardService
	Activities *ActivityService
}

func NewServices(repos *repository.Repositories, natsClient *messaging.NATSClient, paymentClient *external.PaymentClient, walletClient *external.WalletClient, policyEngine *policy.Engine, currency string) *Services {
	machine := lifecycle.NewMachine(policyEngine)

	bookingService := NewBookingService(repos.Bookings, repos.Activities, machine, policyEngine, paymentClient, walletClient, natsClient, currency)
	wizardService := NewWizardService(repos.Wizards, bookingService, natsClient)
	activityService := NewActivityService(repos.Activities)

	return &Services{
		Bookings:   bookingService,
		Wizards:    wizardService,
		Activities: activityService,
	}
}

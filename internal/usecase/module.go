package usecase

import (
	"math/rand"
	"time"

	"go.uber.org/fx"

	"github.com/polkiloo/tableside/internal/config"
	"github.com/polkiloo/tableside/internal/lifecycle"
)

// Module provides core business use cases to the fx container.
var Module = fx.Options(
	fx.Provide(
		newClock,
		newMachine,
		newKitchen,
		newPaymentSettings,
		newAdminCredentials,
	),
	fx.Provide(
		NewAuthUseCase,
		NewOrderUseCase,
		NewCartUseCase,
		NewMenuUseCase,
		NewDashboardUseCase,
		NewFeedbackUseCase,
	),
)

func newClock() lifecycle.Clock {
	return lifecycle.SystemClock{}
}

func newMachine(clock lifecycle.Clock, cfg *config.Config) *lifecycle.Machine {
	return lifecycle.NewMachine(clock, lifecycle.NewThresholds(cfg.PendingThreshold, cfg.PreparingThreshold))
}

func newKitchen() *lifecycle.Kitchen {
	return lifecycle.NewKitchen(rand.New(rand.NewSource(time.Now().UnixNano())))
}

func newPaymentSettings(cfg *config.Config) PaymentSettings {
	return PaymentSettings{Payee: cfg.UPIPayee, Merchant: cfg.UPIMerchant}
}

func newAdminCredentials(cfg *config.Config) AdminCredentials {
	return AdminCredentials{Login: cfg.AdminLogin, Password: cfg.AdminPassword}
}

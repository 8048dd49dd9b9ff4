package messaging

import (
	"time"

	"github.com/google/uuid"
)

// Broker topology shared by the API publisher and the worker consumer.
const (
	InvestmentsExchange = "investments.exchange"

	SimulationsQueue   = "simulations.queue"
	NotificationsQueue = "notifications.queue"

	SimulationCompletedRoutingKey = "simulation.completed"
	NotificationEmailRoutingKey   = "notification.email"
)

// SimulationCompletedEvent is published after a simulation record has been
// committed. The persisted record, not the event, is the source of truth.
type SimulationCompletedEvent struct {
	SimulationUID uuid.UUID `json:"simulation_uid"`
	ClientUID     uuid.UUID `json:"client_uid"`
	ProductUID    uuid.UUID `json:"product_uid"`
	ProductFamily string    `json:"product_family"`
	Invested      string    `json:"invested"`
	GrossFinal    string    `json:"gross_final"`
	NetFinal      string    `json:"net_final"`
	GrossYield    string    `json:"gross_yield"`
	NetYield      string    `json:"net_yield"`
	TermMonths    int       `json:"term_months"`
	SimulatedAt   time.Time `json:"simulated_at"`
	MaturityDate  time.Time `json:"maturity_date"`
}

// NotificationEmailEvent asks the notification worker to mail the client a
// summary of a completed simulation.
type NotificationEmailEvent struct {
	SimulationUID uuid.UUID `json:"simulation_uid"`
	ClientUID     uuid.UUID `json:"client_uid"`
	ProductName   string    `json:"product_name"`
	NetFinal      string    `json:"net_final"`
	MaturityDate  time.Time `json:"maturity_date"`
}

package config

import "time"

const defaultPort = 8080

const defaultOperationTimeout = 3 * time.Second

var defaultDB = DB{
	Host: "127.0.0.1",
	Port: "5432",
	User: "myuser",
	Pass: "mypassword",
	Name: "matching_db",
}

var defaultKafka = Kafka{
	GroupID:                "matching-worker",
	TopicDonationCreated:   "donations.created",
	TopicAssignmentCreated: "assignments.created",
	TopicAssignmentUpdated: "assignments.updated",
	TopicNotifications:     "notifications.push",
}

var defaultMatching = Matching{
	OfferTimeout:        30 * time.Minute,
	MaxRadiusKm:         20,
	MaxAttempts:         5,
	BatchCap:            3,
	TransporterRadiusKm: 15,
	MaxDetourKm:         5,
	VehicleQuantity:     20,
	WeightDistance:      0.4,
	WeightUrgency:       0.3,
	WeightNeed:          0.2,
	NeedLevel:           0.5,
	Timezone:            "UTC",
}

var defaultSweep = Sweep{
	Interval: 30 * time.Second,
}

// DefaultPort returns the default port.
func DefaultPort() int {
	return defaultPort
}

// DefaultOperationTimeout returns the default per-operation timeout.
func DefaultOperationTimeout() time.Duration {
	return defaultOperationTimeout
}

// DefaultDB returns the default database settings.
func DefaultDB() DB {
	return defaultDB
}

// DefaultKafka returns the default Kafka settings (no brokers).
func DefaultKafka() Kafka {
	return defaultKafka
}

// DefaultMatching returns the default matching constants.
func DefaultMatching() Matching {
	return defaultMatching
}

// DefaultSweep returns the default expiry sweep settings.
func DefaultSweep() Sweep {
	return defaultSweep
}

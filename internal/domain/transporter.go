package domain

// VehicleType represents the vehicle a transporter declared.
type VehicleType string

// List of vehicle types known to the matching engine
const (
	VehicleNone              VehicleType = ""
	VehicleBike              VehicleType = "bike"
	VehicleMotorcycle        VehicleType = "motorcycle"
	VehicleCar               VehicleType = "car"
	VehicleVan               VehicleType = "van"
	VehicleRefrigeratedTruck VehicleType = "refrigerated_truck"
)

// CanCarryChilled reports whether the vehicle can move refrigerated food.
func (v VehicleType) CanCarryChilled() bool {
	return v == VehicleRefrigeratedTruck || v == VehicleCar
}

// Transporter is a volunteer who moves donations from donor to recipient.
type Transporter struct {
	ID           string
	Active       bool
	Location     Location
	HasVehicle   bool
	VehicleType  VehicleType
	Availability []string
	ActiveTasks  int
}

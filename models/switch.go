package models

// Switch is a network switch mounted in a rack.
type Switch struct {
	Name     string `json:"name" validate:"required"`
	Status   string `json:"status,omitempty"`
	Rack     string `json:"rack,omitempty"`
	Location string `json:"location,omitempty"`
	Model    string `json:"model,omitempty"`
	MgmtIP   string `json:"mgmt_ip,omitempty" validate:"omitempty,ip"`
}

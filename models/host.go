package models

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Host represents a physical machine tracked by the inventory service.
//
// The inventory service is loosely typed: some endpoints return the status as a
// bare string and others as a nested object. Those fields decode into small
// string types (HostStatus, UsageType) so the rest of the code only ever sees
// plain values. An empty string means the service did not report the field.
//
// Example JSON representation:
//
//	{
//	  "assetid": "100234",
//	  "hardwareid": "SVR.ABC1234",
//	  "platform": "MONZA91",
//	  "status": {"status": "Available"},
//	  "location": "SEA85.159.R6-L01.40",
//	  "con_ip": "10.1.2.3",
//	  "lan_ip": "10.9.8.7"
//	}
type Host struct {
	// AssetID is the unique asset identifier
	AssetID string `json:"assetid" validate:"required"`

	// HardwareID is the vendor hardware identifier (optional)
	HardwareID string `json:"hardwareid,omitempty"`

	// Platform is the hardware platform name, e.g. MONZA91 (optional)
	Platform string `json:"platform,omitempty"`

	// Status is the lifecycle status (Available, Reserved, ...)
	Status HostStatus `json:"status,omitempty"`

	// Location is the dot-delimited physical path, e.g. SEA85.159.R6-L01.40
	Location string `json:"location,omitempty"`

	// ConsoleIP is the BMC address; a non-blank value means the host has a BMC
	ConsoleIP string `json:"con_ip,omitempty" validate:"omitempty,ip"`

	// LanIP is the primary LAN address
	LanIP string `json:"lan_ip,omitempty" validate:"omitempty,ip"`

	Hostname       string      `json:"hostname,omitempty"`
	Manufacturer   string      `json:"manufacturer,omitempty"`
	UsageType      UsageType   `json:"usagetype,omitempty"`
	HostClass      string      `json:"hostclass,omitempty"`
	InstalledOS    string      `json:"installed_os,omitempty"`
	CheckoutOwner  string      `json:"checkout_owner,omitempty"`
	HWMonTimestamp string      `json:"hwmon_timestamp,omitempty"`
	ServerRack     *ServerRack `json:"serverrack,omitempty"`
}

// HasBMC reports whether the host carries a console (BMC) address.
func (h Host) HasBMC() bool {
	return strings.TrimSpace(h.ConsoleIP) != ""
}

// ServerRack is the rack summary embedded in single-host lookups.
type ServerRack struct {
	Lab         string       `json:"lab,omitempty"`
	Position    string       `json:"position,omitempty"`
	ConsoleVLAN *ConsoleVLAN `json:"consolevlan,omitempty"`
}

// ConsoleVLAN describes the management VLAN of a rack.
type ConsoleVLAN struct {
	VLANID FlexString `json:"vlanid,omitempty"`
	Subnet string     `json:"subnet,omitempty"`
}

// HostStatus is a host status that decodes from either "Available" or
// {"status": "Available"}.
type HostStatus string

func (s *HostStatus) UnmarshalJSON(data []byte) error {
	v, err := decodeNested(data, "status")
	if err != nil {
		return err
	}
	*s = HostStatus(v)
	return nil
}

func (s HostStatus) String() string { return string(s) }

// UsageType decodes from either "Lab" or {"usagetype": "Lab"}.
type UsageType string

func (u *UsageType) UnmarshalJSON(data []byte) error {
	v, err := decodeNested(data, "usagetype")
	if err != nil {
		return err
	}
	*u = UsageType(v)
	return nil
}

func (u UsageType) String() string { return string(u) }

// FlexString accepts a JSON string or number. VLAN ids arrive as both.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// decodeNested reads a string either directly or from obj[key].
func decodeNested(data []byte, key string) (string, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return "", nil
	}
	if data[0] == '{' {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(data, &obj); err != nil {
			return "", err
		}
		raw, ok := obj[key]
		if !ok {
			return "", nil
		}
		return decodeNested(raw, key)
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return "", err
	}
	return s, nil
}

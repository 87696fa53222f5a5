package models

import "strings"

// UnknownRoom is the room key for positions with fewer than two segments.
const UnknownRoom = "Unknown"

// RoomKey returns the first two dot segments of a rack position or host
// location, e.g. SEA85.159 for SEA85.159.R6-L01.
func RoomKey(path string) string {
	parts := strings.Split(path, ".")
	if len(parts) < 2 {
		return UnknownRoom
	}
	return parts[0] + "." + parts[1]
}

// RackPosition returns the rack part of a host location (first three
// segments). ok is false when the location is too short to name a rack.
func RackPosition(location string) (string, bool) {
	parts := strings.Split(strings.TrimSpace(location), ".")
	if len(parts) < 3 || parts[0] == "" {
		return "", false
	}
	return strings.Join(parts[:3], "."), true
}

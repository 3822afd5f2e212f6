package domain

// Availability values reported by Microsoft Graph
const (
	AvailabilityAvailable    = "Available"
	AvailabilityBusy         = "Busy"
	AvailabilityDoNotDisturb = "DoNotDisturb"
	AvailabilityAway         = "Away"
	AvailabilityBeRightBack  = "BeRightBack"
	AvailabilityOffline      = "Offline"
	AvailabilityUnknown      = "PresenceUnknown"
)

// Presence is a user's current status
type Presence struct {
	UserID       string `json:"userId"`
	Availability string `json:"availability"`
	Activity     string `json:"activity,omitempty"`
}

// Profile is a user's directory entry
type Profile struct {
	UserID         string `json:"userId"`
	DisplayName    string `json:"displayName"`
	JobTitle       string `json:"jobTitle,omitempty"`
	Mail           string `json:"mail,omitempty"`
	OfficeLocation string `json:"officeLocation,omitempty"`
}

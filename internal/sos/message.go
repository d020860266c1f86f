package sos

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"rakshak-service/internal/incident"
)

const timeLayout = "02 Jan 2006, 03:04:05 PM MST"

func coords(inc *incident.Incident) (string, string) {
	return strconv.FormatFloat(inc.Location.Latitude, 'f', -1, 64),
		strconv.FormatFloat(inc.Location.Longitude, 'f', -1, 64)
}

// MapsLink points Google Maps at the incident coordinates.
func MapsLink(inc *incident.Incident) string {
	lat, lon := coords(inc)
	return fmt.Sprintf("https://www.google.com/maps?q=%s,%s", lat, lon)
}

// AlertMessage is the text sent to every contact when an SOS is raised.
func AlertMessage(inc *incident.Incident, loc *time.Location) string {
	return buildMessage(inc, loc, true)
}

// BulkSMSMessage is the shorter text used by the explicit bulk SMS
// resend, which omits the map link.
func BulkSMSMessage(inc *incident.Incident, loc *time.Location) string {
	return buildMessage(inc, loc, false)
}

func buildMessage(inc *incident.Incident, loc *time.Location, withMap bool) string {
	if loc == nil {
		loc = time.UTC
	}
	lat, lon := coords(inc)

	var b strings.Builder
	b.WriteString("🚨 SOS ALERT 🚨\n")
	fmt.Fprintf(&b, "Emergency at: %s\n", inc.Location.Address)
	fmt.Fprintf(&b, "Description: %s\n", inc.Description)
	fmt.Fprintf(&b, "Time: %s\n", inc.CreatedAt.In(loc).Format(timeLayout))
	fmt.Fprintf(&b, "Location: %s, %s\n", lat, lon)
	if withMap {
		fmt.Fprintf(&b, "Google Maps: %s\n", MapsLink(inc))
	}
	b.WriteString("Please respond immediately!")
	return b.String()
}

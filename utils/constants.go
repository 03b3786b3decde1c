// File: utils/constants.go
package utils

import "time"

// PresencePrefix is the prefix used for Redis presence keys.
const PresencePrefix = "presence:"

// PresenceTTL bounds how long a presence entry survives without a heartbeat.
const PresenceTTL = 2 * time.Minute

// DateLayout is the calendar-day layout used as the booking date key.
const DateLayout = "2006-01-02"

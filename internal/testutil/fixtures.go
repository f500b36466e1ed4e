package testutil

import "strings"

// Transcript is a capture that runs the expected nine commands in order. It
// contains one "clear" line, one non-zero counter line and one serial number.
// Clock #1 to #2 is 45s apart and clock #2 to #3 is 6000s apart.
const Transcript = `SW1#show clock
*10:00:00.000 UTC Wed Feb 25 2026
SW1#show version
Cisco IOS Software, C2960X Software, Version 15.2(7)E4
System serial number            : FOC1234X0AB
SW1#show running-config
Building configuration...
hostname SW1
SW1#show logging
Syslog logging: enabled (0 messages dropped)
SW1#clear counters
SW1#show env all
FAN is OK
SW1#show clock
*10:00:45.000 UTC Wed Feb 25 2026
SW1#show interfaces | include CRC
     12 input errors, 3 CRC, 1 frame, 0 overrun, 9 ignored
     0 input errors, 0 CRC, 0 frame, 0 overrun, 0 ignored
SW1#show clock
*11:40:45.000 UTC Wed Feb 25 2026
SW1#show interfaces | include CRC
     0 input errors, 0 CRC, 0 frame, 0 overrun, 0 ignored, 2 abort
`

// Lines splits text on line feeds.
func Lines(text string) []string {
	return strings.Split(text, "\n")
}

// IsShowClock is a minimal show clock predicate for tests that do not need
// full command recognition.
func IsShowClock(line string) bool {
	return strings.Contains(line, "#show clock")
}

package entity

import "strings"

type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

func (c Channel) String() string {
	return string(c)
}

// Mode selects which channels an issuance may use.
type Mode string

const (
	// ModeSingle delivers by email only.
	ModeSingle Mode = "single"
	// ModeDual delivers by email and/or SMS with one shared code.
	ModeDual Mode = "dual"
)

// ModeFromString parses s, falling back to ModeDual.
func ModeFromString(s string) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeSingle:
		return ModeSingle
	default:
		return ModeDual
	}
}

// Policy decides how per-channel outcomes fold into one result.
type Policy string

const (
	// PolicyAll fails the issuance when any channel fails.
	PolicyAll Policy = "all"
	// PolicyBestEffort succeeds when at least one channel succeeds.
	PolicyBestEffort Policy = "best_effort"
)

// PolicyFromString parses s, falling back to PolicyAll.
func PolicyFromString(s string) Policy {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case PolicyBestEffort:
		return PolicyBestEffort
	default:
		return PolicyAll
	}
}

// Failed reports whether outcomes violate the policy and returns the failed channels.
func (p Policy) Failed(outcomes []DeliveryOutcome) (bool, []Channel) {
	var failed []Channel
	for _, o := range outcomes {
		if !o.Success {
			failed = append(failed, o.Channel)
		}
	}

	if len(outcomes) == 0 {
		return true, failed
	}

	if p == PolicyBestEffort {
		return len(failed) == len(outcomes), failed
	}

	return len(failed) > 0, failed
}

package pages

import (
	"regexp"
	"strings"

	"github.com/lgoenaga/front-gea-cesde-sub000/core/api"
)

// knownMessage maps a backend failure to operator-facing text. A failure matches
// by errorCode when the backend sends one, otherwise by a pattern over the whole message.
type knownMessage struct {
	code    string
	pattern *regexp.Regexp
	text    string
}

var knownMessages = []knownMessage{
	{
		code:    "ENROLLMENT_ACTIVE_EXISTS",
		pattern: regexp.MustCompile(`(?i)^(the )?student (.+ )?already has an active enrollment( in (this|the) course)?( .+)?$`),
		text:    "The student already has an active enrollment in this course.",
	},
	{
		code:    "SUBJECT_ENROLLMENT_EXISTS",
		pattern: regexp.MustCompile(`(?i)^(the )?student (.+ )?is already enrolled in (the |this )?subject( .+)?$`),
		text:    "The student is already enrolled in one of the selected subjects.",
	},
	{
		code:    "SUBJECT_NOT_IN_LEVEL",
		pattern: regexp.MustCompile(`(?i)^(the )?subject (.+ )?does not belong to (the |this )?(enrolled )?level( .+)?$`),
		text:    "One of the selected subjects does not belong to the chosen level.",
	},
	{
		code:    "LEVEL_NOT_IN_COURSE",
		pattern: regexp.MustCompile(`(?i)^(the )?level (.+ )?does not belong to (the |this )?course( .+)?$`),
		text:    "The chosen level does not belong to the course.",
	},
	{
		code:    "GROUP_FULL",
		pattern: regexp.MustCompile(`(?i)^(the )?group (.+ )?(is full|has reached its (maximum )?capacity)$`),
		text:    "The selected group has no seats left.",
	},
	{
		code:    "ROLE_IN_USE",
		pattern: regexp.MustCompile(`(?i)^(the )?role (.+ )?(is )?(still )?(assigned to|in use by) (one or more )?users?$`),
		text:    "The role is assigned to users and cannot be deleted.",
	},
	{
		code:    "DUPLICATE_DOCUMENT",
		pattern: regexp.MustCompile(`(?i)^(a )?(student|professor|person) with (this|the same) document (number )?already exists$`),
		text:    "Another person is already registered with this document.",
	},
	{
		code:    "ACTIVE_PERIOD_EXISTS",
		pattern: regexp.MustCompile(`(?i)^there is already an active (academic )?period$`),
		text:    "Another academic period is already active. Deactivate it first.",
	},
}

// FriendlyMessage turns err into the text shown in a toast. Unrecognized backend
// messages are returned verbatim.
func FriendlyMessage(err error) string {
	if err == nil {
		return ""
	}
	apiErr, ok := api.AsError(err)
	if !ok {
		if api.IsTransport(err) {
			return "Could not reach the server. Please try again."
		}
		return "Something went wrong in the console. Please try again."
	}
	if apiErr.Code != "" {
		for _, km := range knownMessages {
			if km.code == apiErr.Code {
				return km.text
			}
		}
	}
	msg := strings.TrimRight(strings.TrimSpace(apiErr.Message), ".")
	for _, km := range knownMessages {
		if km.pattern.MatchString(msg) {
			return km.text
		}
	}
	return api.Message(err)
}

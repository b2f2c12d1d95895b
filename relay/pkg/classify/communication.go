package classify

import (
	"fmt"
	"strings"

	"github.com/lotwire-systems/lotwire-relay/common/models"
	"github.com/lotwire-systems/lotwire-relay/common/value"
	"github.com/lotwire-systems/lotwire-relay/relay/pkg/taxonomy"
)

// SMS consent keywords, matched against the whole trimmed body. Carrier
// rules define these; substring matching would misfire on ordinary
// conversation ("we can stop by tomorrow").
var (
	smsOptOutKeywords = map[string]struct{}{
		"stop": {}, "stopall": {}, "unsubscribe": {}, "cancel": {}, "end": {}, "quit": {},
	}
	smsOptInKeywords = map[string]struct{}{
		"start": {}, "unstop": {}, "subscribe": {}, "yes": {},
	}
)

// communicationCascade resolves call dispositions and SMS consent from
// free-text note bodies. Rule order carries meaning: the
// failed-voicemail phrasing must run before the voicemail rule, which
// must run before the generic no-answer rule, or "couldn't leave a
// voicemail" resolves to a voicemail that was never left.
var communicationCascade = &Cascade{
	Category: taxonomy.CategoryCommunication,
	Validate: validateChannel,
	Rules: []Rule{
		{
			Name: "sms-opt-out",
			Match: func(p map[string]interface{}) bool {
				return matchConsent(p, smsOptOutKeywords)
			},
			Tag: taxonomy.TagSMSOptOut,
		},
		{
			Name: "sms-opt-in",
			Match: func(p map[string]interface{}) bool {
				return matchConsent(p, smsOptInKeywords)
			},
			Tag: taxonomy.TagSMSOptIn,
		},
		{
			Name: "failed-voicemail",
			Match: noteContains(
				"couldn't leave", "could not leave", "unable to leave",
				"mailbox full", "voicemail full", "voicemail box full",
			),
			Tag: taxonomy.TagNoAnswer,
		},
		{
			Name: "voicemail-left",
			Match: noteContains("voicemail", "left vm", "left a message", "left message"),
			Tag:  taxonomy.TagVoicemail,
		},
		{
			Name: "no-answer",
			Match: noteContains(
				"no answer", "didn't answer", "did not answer",
				"no response", "didn't pick up", "did not pick up",
			),
			Tag: taxonomy.TagNoAnswer,
		},
		{
			Name:  "bad-number",
			Match: noteContains("wrong number", "bad number", "disconnected", "not in service"),
			Tag:   taxonomy.TagBadNumber,
		},
		{
			Name:  "connected",
			Match: noteContains("spoke with", "spoke to", "talked to", "talked with", "reached"),
			Tag:   taxonomy.TagConnected,
		},
		{
			// Terminal rule: a communication that matched nothing is
			// still a communication worth recording.
			Name:  "logged",
			Match: func(map[string]interface{}) bool { return true },
			Tag:   taxonomy.TagLogged,
		},
	},
}

func validateChannel(p map[string]interface{}) *models.ValidationError {
	channel, ok := value.String(p, "channel")
	if !ok {
		return &models.ValidationError{
			Code:    models.CodeUnrecognizedShape,
			Field:   "channel",
			Message: "communication payload has no channel",
		}
	}
	if _, known := taxonomy.CommunicationChannels[fold(channel)]; !known {
		return &models.ValidationError{
			Code:    models.CodeUnknownEnum,
			Field:   "channel",
			Message: fmt.Sprintf("channel %q is outside the communication enumeration", channel),
		}
	}
	return nil
}

func matchConsent(p map[string]interface{}, keywords map[string]struct{}) bool {
	channel, _ := value.String(p, "channel")
	if fold(channel) != "sms" {
		return false
	}
	_, ok := keywords[fold(noteBody(p))]
	return ok
}

// noteContains builds a predicate testing the lowercased note body for
// any of the given phrases.
func noteContains(phrases ...string) func(map[string]interface{}) bool {
	return func(p map[string]interface{}) bool {
		note := strings.ToLower(noteBody(p))
		if note == "" {
			return false
		}
		for _, phrase := range phrases {
			if strings.Contains(note, phrase) {
				return true
			}
		}
		return false
	}
}

// noteBody reads the free-text body of a communication. Call records use
// "note", SMS records use "body"; either is accepted for both.
func noteBody(p map[string]interface{}) string {
	if s, ok := value.String(p, "note"); ok {
		return s
	}
	if s, ok := value.String(p, "body"); ok {
		return s
	}
	return ""
}

// Package payload builds legacy FCM wire payloads. Building is pure: no
// I/O, and identical input always yields identical bytes.
package payload

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tinywideclouds/go-fcm/pkg/message"
)

const (
	// MaxRecipients is the gateway cap on registration ids per request.
	MaxRecipients = 1000

	// PriorityLow optimizes battery; delivery may be delayed.
	PriorityLow = "normal"
	// PriorityHigh wakes a sleeping device; this is the default.
	PriorityHigh = "high"
)

// ErrNegativeBadge rejects badge values the gateway cannot represent.
var ErrNegativeBadge = errors.New("badge must not be negative")

// Build encodes one request chunk for msg. registrationIDs, when non-empty,
// overrides the message's own target fields for that chunk (the facade
// passes each chunk of the recipient list here). dataOnly drops the
// notification sub-object from the final payload so only the data mapping
// is delivered.
//
// The envelope is assembled as a map and marshaled with encoding/json,
// which emits compact output with sorted keys, so the bytes are
// reproducible for a given logical message.
func Build(msg *message.Message, registrationIDs []string, dataOnly bool) ([]byte, error) {
	envelope := map[string]any{}

	if len(registrationIDs) > 1 {
		envelope["registration_ids"] = registrationIDs
	} else if len(registrationIDs) == 1 {
		envelope["to"] = registrationIDs[0]
	}

	if msg.Condition != "" {
		envelope["condition"] = msg.Condition
	} else if msg.Topic != "" {
		// The gateway forbids a "to" target when a condition over multiple
		// topics is present, hence the else branch.
		envelope["to"] = fmt.Sprintf("/topics/%s", msg.Topic)
	}

	if msg.LowPriority {
		envelope["priority"] = PriorityLow
	} else {
		envelope["priority"] = PriorityHigh
	}

	if msg.DelayWhileIdle {
		envelope["delay_while_idle"] = true
	}
	if msg.CollapseKey != "" {
		envelope["collapse_key"] = msg.CollapseKey
	}
	if msg.TimeToLive != nil {
		envelope["time_to_live"] = *msg.TimeToLive
	}
	if msg.RestrictedPackageName != "" {
		envelope["restricted_package_name"] = msg.RestrictedPackageName
	}
	if msg.DryRun {
		envelope["dry_run"] = true
	}

	notification, err := buildNotification(msg)
	if err != nil {
		return nil, err
	}
	envelope["notification"] = notification

	if len(msg.Data) > 0 {
		envelope["data"] = msg.Data
	}

	if msg.ContentAvailable != nil {
		envelope["content_available"] = *msg.ContentAvailable
	}

	for k, v := range msg.Extra {
		envelope[k] = v
	}
	for k, v := range msg.ExtraNotification {
		notification[k] = v
	}

	if dataOnly {
		delete(envelope, "notification")
	}

	return json.Marshal(envelope)
}

// buildNotification populates the notification sub-object. The sub-object
// always exists, even when empty; Build drops it again for data-only sends.
func buildNotification(msg *message.Message) (map[string]any, error) {
	n := map[string]any{}

	if msg.Icon != "" {
		n["icon"] = msg.Icon
	}

	// Body and title each suppress their localization pair: the gateway
	// rejects payloads carrying both forms for the same field.
	if msg.Body != "" {
		n["body"] = msg.Body
	} else {
		if msg.BodyLocKey != "" {
			n["body_loc_key"] = msg.BodyLocKey
		}
		if len(msg.BodyLocArgs) > 0 {
			n["body_loc_args"] = msg.BodyLocArgs
		}
	}
	if msg.Title != "" {
		n["title"] = msg.Title
	} else {
		if msg.TitleLocKey != "" {
			n["title_loc_key"] = msg.TitleLocKey
		}
		if len(msg.TitleLocArgs) > 0 {
			n["title_loc_args"] = msg.TitleLocArgs
		}
	}

	if msg.AndroidChannelID != "" {
		n["android_channel_id"] = msg.AndroidChannelID
	}
	if msg.ClickAction != "" {
		n["click_action"] = msg.ClickAction
	}
	if msg.Badge != nil {
		if *msg.Badge < 0 {
			return nil, ErrNegativeBadge
		}
		n["badge"] = *msg.Badge
	}
	if msg.Color != "" {
		n["color"] = msg.Color
	}
	if msg.Tag != "" {
		n["tag"] = msg.Tag
	}
	// An empty sound string must stay absent: the gateway plays a default
	// sound for any present value, empty included.
	if msg.Sound != "" {
		n["sound"] = msg.Sound
	}

	return n, nil
}

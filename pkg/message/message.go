// Package message contains the public domain types for the FCM client:
// the outbound Message description, the aggregated send Result, and the
// token details returned by the instance-id endpoints.
package message

// Message describes one push notification send. All fields are optional
// except that a target must be supplied: exactly one of RegistrationID,
// RegistrationIDs, Topic or Condition, depending on the operation.
//
// Precedence inside the built payload follows the gateway rules: a single
// registration id is encoded as a direct target, two or more as a list;
// Condition always wins over Topic; Body/Title suppress their localization
// counterparts. See internal/payload for the full set of rules.
type Message struct {
	// Targets.
	RegistrationID  string
	RegistrationIDs []string
	Topic           string
	Condition       string

	// Display fields for the notification sub-object.
	Title            string
	Body             string
	Icon             string
	Sound            string
	Badge            *int
	Color            string
	Tag              string
	ClickAction      string
	AndroidChannelID string
	BodyLocKey       string
	BodyLocArgs      []string
	TitleLocKey      string
	TitleLocArgs     []string

	// ContentAvailable is only encoded when explicitly set. Needed for iOS
	// data-only messages.
	ContentAvailable *bool

	// Delivery policy.
	LowPriority           bool
	CollapseKey           string
	TimeToLive            *int
	RestrictedPackageName string
	DelayWhileIdle        bool
	DryRun                bool

	// Data is the custom key-value payload, encoded at the top level of the
	// wire payload (not inside the notification sub-object).
	Data map[string]any

	// Extra and ExtraNotification are forward-compatibility escape hatches:
	// they are merged last into the top-level envelope and the notification
	// sub-object respectively, overriding any previously set keys.
	Extra             map[string]any
	ExtraNotification map[string]any
}

// RecipientResult is one per-recipient entry from a gateway response.
type RecipientResult struct {
	MessageID string `json:"message_id,omitempty"`
	// RegistrationID, when set, is the canonical replacement token the
	// caller should store in place of the one the send targeted.
	RegistrationID string `json:"registration_id,omitempty"`
	Error          string `json:"error,omitempty"`
}

// Result is the aggregate outcome of one notify operation, merged across
// all chunked gateway calls.
type Result struct {
	Success      int
	Failure      int
	CanonicalIDs int
	Results      []RecipientResult

	// MulticastIDs holds one id per underlying gateway call that returned
	// one, in dispatch order.
	MulticastIDs []int64

	// TopicMessageID is set for topic and condition sends, which are always
	// single-recipient in gateway terms.
	TopicMessageID int64
}

// TopicRecord is one topic membership entry in a token's details.
type TopicRecord struct {
	AddDate string `json:"addDate"`
}

// TokenInfo is the detailed registration info for one device token.
type TokenInfo struct {
	Application        string `json:"application"`
	ApplicationVersion string `json:"applicationVersion,omitempty"`
	Subtype            string `json:"subtype,omitempty"`
	Scope              string `json:"scope,omitempty"`
	AuthorizedEntity   string `json:"authorizedEntity,omitempty"`
	Platform           string `json:"platform,omitempty"`
	Rel                struct {
		Topics map[string]TopicRecord `json:"topics"`
	} `json:"rel"`
}

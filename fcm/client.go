// Package fcm is a client for the legacy FCM HTTP gateway. It builds wire
// payloads from a message description, fans chunked requests out
// concurrently with Retry-After backoff, and merges the per-chunk gateway
// responses into one result. Topic subscription management and token info
// lookups ride the same transport.
package fcm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/tinywideclouds/go-fcm/fcm/config"
	"github.com/tinywideclouds/go-fcm/internal/payload"
	"github.com/tinywideclouds/go-fcm/internal/response"
	"github.com/tinywideclouds/go-fcm/internal/transport"
	"github.com/tinywideclouds/go-fcm/pkg/message"
)

// Client is the public facade. It is safe for concurrent use: the
// underlying HTTP client is shared read-only and each call owns its own
// request and response.
type Client struct {
	cfg        *config.Config
	sender     *transport.Sender
	dispatcher *transport.Dispatcher
	logger     *slog.Logger
}

// New assembles the client. It fails when no API key is configured, and
// when a configured proxy URL does not parse.
func New(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrAuthentication.New("no API key provided")
	}

	// Allow direct struct construction without the config helpers.
	if cfg.SendEndpoint == "" {
		cfg.SendEndpoint = config.DefaultSendEndpoint
	}
	if cfg.IIDEndpoint == "" {
		cfg.IIDEndpoint = config.DefaultIIDEndpoint
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = config.DefaultRequestTimeout
	}

	sender, err := transport.NewSender(cfg.APIKey, cfg.Proxies, cfg.RequestTimeout, cfg.MaxRetryAfter, logger)
	if err != nil {
		return nil, ErrInvalidData.Wrap(err)
	}

	return &Client{
		cfg:        cfg,
		sender:     sender,
		dispatcher: transport.NewDispatcher(sender, logger),
		logger:     logger.With("component", "FCMClient"),
	}, nil
}

// NotifyDevices sends msg to its registration id target(s). The recipient
// list is split into gateway-sized chunks which are dispatched
// concurrently and aggregated into one result.
func (c *Client) NotifyDevices(ctx context.Context, msg *message.Message) (*message.Result, error) {
	ids := msg.RegistrationIDs
	if msg.RegistrationID != "" {
		ids = []string{msg.RegistrationID}
	}
	if len(ids) == 0 {
		return nil, ErrInvalidData.New("either RegistrationID or RegistrationIDs must be provided")
	}

	chunks := payload.Chunk(ids, payload.MaxRecipients)
	payloads := make([][]byte, 0, len(chunks))
	for _, chunk := range chunks {
		body, err := payload.Build(msg, chunk, false)
		if err != nil {
			return nil, ErrInvalidData.Wrap(err)
		}
		payloads = append(payloads, body)
	}

	return c.send(ctx, payloads)
}

// NotifyTopicSubscribers sends msg to the subscribers of msg.Topic (or of
// msg.Condition, which wins when both are set). Topic sends are never
// chunked.
func (c *Client) NotifyTopicSubscribers(ctx context.Context, msg *message.Message) (*message.Result, error) {
	return c.notifyTopic(ctx, msg, false)
}

// NotifyTopicSubscribersDataOnly is NotifyTopicSubscribers with the
// notification sub-object stripped, so subscribers receive only the data
// mapping.
func (c *Client) NotifyTopicSubscribersDataOnly(ctx context.Context, msg *message.Message) (*message.Result, error) {
	return c.notifyTopic(ctx, msg, true)
}

func (c *Client) notifyTopic(ctx context.Context, msg *message.Message, dataOnly bool) (*message.Result, error) {
	if msg.Topic == "" {
		return nil, ErrInvalidData.New("topic name is required")
	}
	body, err := payload.Build(msg, nil, dataOnly)
	if err != nil {
		return nil, ErrInvalidData.Wrap(err)
	}
	return c.send(ctx, [][]byte{body})
}

func (c *Client) send(ctx context.Context, payloads [][]byte) (*message.Result, error) {
	responses, err := c.dispatcher.Dispatch(ctx, c.cfg.SendEndpoint, payloads)
	if err != nil {
		return nil, Error.Wrap(err)
	}

	result, outcome := response.Aggregate(responses)
	if err := classError(outcome); err != nil {
		return nil, err
	}

	c.logger.Info("Notification dispatched",
		"chunks", len(payloads),
		"success", result.Success,
		"failure", result.Failure,
	)
	return result, nil
}

// SubscribeToTopic subscribes the registration ids to the named topic.
func (c *Client) SubscribeToTopic(ctx context.Context, registrationIDs []string, topic string) error {
	return c.batchTopic(ctx, "batchAdd", registrationIDs, topic)
}

// UnsubscribeFromTopic removes the registration ids from the named topic.
func (c *Client) UnsubscribeFromTopic(ctx context.Context, registrationIDs []string, topic string) error {
	return c.batchTopic(ctx, "batchRemove", registrationIDs, topic)
}

type batchRequest struct {
	To                 string   `json:"to"`
	RegistrationTokens []string `json:"registration_tokens"`
}

func (c *Client) batchTopic(ctx context.Context, op string, registrationIDs []string, topic string) error {
	body, err := json.Marshal(batchRequest{
		To:                 "/topics/" + topic,
		RegistrationTokens: registrationIDs,
	})
	if err != nil {
		return ErrInvalidData.Wrap(err)
	}

	resp, err := c.sender.Post(ctx, fmt.Sprintf("%s/iid/v1:%s", c.cfg.IIDEndpoint, op), body)
	if err != nil {
		return Error.Wrap(err)
	}

	switch resp.StatusCode {
	case 200:
		c.logger.Info("Topic membership updated", "op", op, "topic", topic, "tokens", len(registrationIDs))
		return nil
	case 400:
		var detail struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(resp.Body, &detail); err != nil || detail.Error == "" {
			detail.Error = string(resp.Body)
		}
		return ErrInvalidData.New("%s", detail.Error)
	default:
		return Error.New("topic %s failed with status %d", op, resp.StatusCode)
	}
}

// GetTokenInfo returns the gateway's registration details for one token.
func (c *Client) GetTokenInfo(ctx context.Context, registrationID string) (*message.TokenInfo, error) {
	resp, err := c.sender.Get(ctx, c.infoEndpoint(registrationID))
	if err != nil {
		return nil, Error.Wrap(err)
	}

	switch resp.StatusCode {
	case 200:
		var info message.TokenInfo
		if err := json.Unmarshal(resp.Body, &info); err != nil {
			return nil, ErrServer.Wrap(err)
		}
		return &info, nil
	case 401:
		return nil, ErrAuthentication.New("error authenticating the sender account")
	case 400:
		return nil, ErrInvalidData.New("%s", string(resp.Body))
	case 404:
		return nil, ErrNotRegistered.New("token not registered")
	default:
		return nil, ErrServer.New("token info lookup failed with status %d", resp.StatusCode)
	}
}

// CleanRegistrationIDs filters registrationIDs down to the ones the
// gateway still considers registered.
func (c *Client) CleanRegistrationIDs(ctx context.Context, registrationIDs []string) ([]string, error) {
	valid := make([]string, 0, len(registrationIDs))
	for _, id := range registrationIDs {
		resp, err := c.sender.Get(ctx, c.infoEndpoint(id))
		if err != nil {
			return nil, Error.Wrap(err)
		}
		if resp.StatusCode == 200 {
			valid = append(valid, id)
		}
	}
	return valid, nil
}

func (c *Client) infoEndpoint(registrationID string) string {
	return fmt.Sprintf("%s/iid/info/%s?details=true", c.cfg.IIDEndpoint, url.PathEscape(registrationID))
}

// classError converts an aggregation outcome into the public error
// taxonomy. Classification itself happens in internal/response; errors only
// materialize here, at the facade boundary.
func classError(outcome response.Classification) error {
	switch outcome.Status {
	case response.StatusOK:
		return nil
	case response.StatusAuthFailure:
		return ErrAuthentication.New("%s", outcome.Detail)
	case response.StatusBadRequest:
		return ErrInvalidData.New("%s", outcome.Detail)
	case response.StatusNotRegistered:
		return ErrNotRegistered.New("%s", outcome.Detail)
	default:
		return ErrServer.New("%s", outcome.Detail)
	}
}

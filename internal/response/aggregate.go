// Package response classifies raw gateway responses and merges them into a
// single aggregate result. Classification is expressed as a tagged outcome
// rather than an error; the facade converts outcomes to the public error
// taxonomy at the boundary.
package response

import (
	"encoding/json"

	"github.com/tinywideclouds/go-fcm/internal/transport"
	"github.com/tinywideclouds/go-fcm/pkg/message"
)

// Status tags the outcome of classifying one gateway response.
type Status int

const (
	StatusOK Status = iota
	StatusAuthFailure
	StatusBadRequest
	StatusNotRegistered
	StatusServerError
)

// Classification is the tagged outcome of processing gateway responses.
// Detail carries the server's own description when one exists (notably the
// raw body of a 400).
type Classification struct {
	Status Status
	Detail string
}

func ok() Classification {
	return Classification{Status: StatusOK}
}

// chunkBody is the success-body schema of one gateway call.
type chunkBody struct {
	MulticastID  int64                     `json:"multicast_id"`
	Success      int                       `json:"success"`
	Failure      int                       `json:"failure"`
	CanonicalIDs int                       `json:"canonical_ids"`
	Results      []message.RecipientResult `json:"results"`
	// MessageID is only present on topic and condition sends.
	MessageID int64 `json:"message_id"`
}

// Aggregate walks responses in dispatch order and merges the successful
// ones: counters are additive, per-recipient results are appended, and a
// present message_id counts as exactly one success and becomes the topic
// message id (the last present one wins). The first response that does not
// classify as OK aborts aggregation and its classification is returned with
// a nil result.
func Aggregate(responses []*transport.Response) (*message.Result, Classification) {
	result := &message.Result{}

	for _, resp := range responses {
		switch resp.StatusCode {
		case 200:
			if len(resp.Body) == 0 {
				// An empty 200 is not a valid success.
				return nil, Classification{Status: StatusServerError, Detail: "gateway returned an empty response body"}
			}
			var chunk chunkBody
			if err := json.Unmarshal(resp.Body, &chunk); err != nil {
				return nil, Classification{Status: StatusServerError, Detail: "gateway returned a malformed response body"}
			}
			if chunk.MessageID != 0 {
				chunk.Success = 1
				result.TopicMessageID = chunk.MessageID
			}
			if chunk.MulticastID != 0 {
				result.MulticastIDs = append(result.MulticastIDs, chunk.MulticastID)
			}
			result.Success += chunk.Success
			result.Failure += chunk.Failure
			result.CanonicalIDs += chunk.CanonicalIDs
			result.Results = append(result.Results, chunk.Results...)

		case 401:
			return nil, Classification{Status: StatusAuthFailure, Detail: "error authenticating the sender account"}
		case 400:
			return nil, Classification{Status: StatusBadRequest, Detail: string(resp.Body)}
		case 404:
			return nil, Classification{Status: StatusNotRegistered, Detail: "token not registered"}
		default:
			return nil, Classification{Status: StatusServerError, Detail: "gateway is temporarily unavailable"}
		}
	}

	return result, ok()
}

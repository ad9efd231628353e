package ws

import "encoding/json"

// Envelope wraps all WebSocket messages with a type discriminator.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Server -> client message types.
const (
	TypeHello            = "hello"
	TypeOptimiseStarted  = "optimise:started"
	TypeOptimiseProgress = "optimise:progress"
	TypeOptimiseFinished = "optimise:finished"
	TypeOptimiseFailed   = "optimise:failed"
)

type HelloPayload struct {
	SiteDigest string `json:"site_digest"`
	Timesteps  int    `json:"timesteps"`
}

type OptimiseStartedPayload struct {
	Tasks int `json:"tasks"`
}

type OptimiseFinishedPayload struct {
	RunID string `json:"run_id"`
}

type OptimiseFailedPayload struct {
	Error string `json:"error"`
}

func NewEnvelope(msgType string, payload any) ([]byte, error) {
	var raw json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		raw = b
	}
	return json.Marshal(Envelope{Type: msgType, Payload: raw})
}

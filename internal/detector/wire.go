package detector

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// ErrMalformedHand is returned when a hand does not carry exactly
// NumLandmarks points or a coordinate lies outside [-maxCoord, maxCoord].
var ErrMalformedHand = errors.New("malformed hand landmarks")

// maxCoord bounds accepted coordinates. Normalized camera space is [0,1]
// with some slack for hands partly out of frame.
const maxCoord = 10

func inRange(v float64) bool {
	return !math.IsNaN(v) && math.Abs(v) <= maxCoord
}

// jsonHand is the wire shape shared by the MediaPipe service and browser detectors.
type jsonHand struct {
	Points     []jsonPoint `json:"points"`
	Handedness string      `json:"handedness"`
	Score      float64     `json:"score"`
}

type jsonPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Message is a detection result as sent over the wire.
type Message struct {
	Hands []jsonHand `json:"hands"`
}

// DecodeHands parses a detection message of the form {"hands":[{"points":[...]}]}.
func DecodeHands(data []byte) ([]HandLandmarks, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("parse hands: %w", err)
	}

	result := make([]HandLandmarks, 0, len(msg.Hands))
	for i, h := range msg.Hands {
		lm, err := h.toHandLandmarks()
		if err != nil {
			return nil, fmt.Errorf("hand %d: %w", i, err)
		}
		result = append(result, lm)
	}
	return result, nil
}

// EncodeHands renders hands in the wire format accepted by DecodeHands.
func EncodeHands(hands []HandLandmarks) ([]byte, error) {
	msg := Message{Hands: make([]jsonHand, len(hands))}
	for i, h := range hands {
		jh := jsonHand{
			Points:     make([]jsonPoint, NumLandmarks),
			Handedness: h.Handedness,
			Score:      h.Score,
		}
		for j, p := range h.Points {
			jh.Points[j] = jsonPoint{X: p.X, Y: p.Y, Z: p.Z}
		}
		msg.Hands[i] = jh
	}
	return json.Marshal(msg)
}

func (h jsonHand) toHandLandmarks() (HandLandmarks, error) {
	if len(h.Points) != NumLandmarks {
		return HandLandmarks{}, fmt.Errorf("%w: got %d points, want %d", ErrMalformedHand, len(h.Points), NumLandmarks)
	}

	lm := HandLandmarks{
		Handedness: h.Handedness,
		Score:      h.Score,
	}
	for i, p := range h.Points {
		if !inRange(p.X) || !inRange(p.Y) || !inRange(p.Z) {
			return HandLandmarks{}, fmt.Errorf("%w: %s out of range (%g, %g, %g)", ErrMalformedHand, Landmark(i), p.X, p.Y, p.Z)
		}
		lm.Points[i] = Point3D{X: p.X, Y: p.Y, Z: p.Z}
	}
	return lm, nil
}

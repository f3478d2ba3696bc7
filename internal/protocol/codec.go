package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrMalformedMessage is returned when the payload is not a JSON object
	ErrMalformedMessage = errors.New("malformed message")
	// ErrUnknownMessage is returned when no variant matches the payload
	ErrUnknownMessage = errors.New("unknown message")
)

// simpleNames are the control messages carried by Simple
var simpleNames = map[string]bool{
	NameIdentify:           true,
	NameGamesRequest:       true,
	NameWaitingEnemy:       true,
	NameClientDisconnected: true,
	NameHostDisconnected:   true,
	NameUnknownMessage:     true,
}

// Encode serializes a message to its wire form
func Encode(m Message) ([]byte, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil message", ErrUnknownMessage)
	}
	return json.Marshal(m)
}

// MustEncode is Encode for messages built by the server itself
func MustEncode(m Message) []byte {
	data, err := Encode(m)
	if err != nil {
		panic(fmt.Sprintf("protocol: encode %s: %v", m.Kind(), err))
	}
	return data
}

// Decode parses a wire message. A known "name" discriminant is read first;
// the variants that carry no discriminant are recognised by their identifying
// key (game, game_id or games).
func Decode(data []byte) (Message, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return nil, ErrMalformedMessage
	}

	var name string
	if raw, ok := fields["name"]; ok && json.Unmarshal(raw, &name) == nil && isDiscriminant(name) {
		return decodeNamed(name, fields, data)
	}

	switch {
	case has(fields, "game"):
		var m CreateGame
		return decodeInto(data, &m, fields, "game")
	case has(fields, "game_id"):
		var m JoinGame
		return decodeInto(data, &m, fields, "game_id", "client_name")
	case has(fields, "games"):
		var m OpenGames
		return decodeInto(data, &m, fields, "games")
	}
	if name != "" {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessage, name)
	}
	return nil, ErrUnknownMessage
}

func isDiscriminant(name string) bool {
	switch name {
	case NameIdentification, NameCellSelected, NameStart, NameGameOver, NameError:
		return true
	}
	return simpleNames[name]
}

func decodeNamed(name string, fields map[string]json.RawMessage, data []byte) (Message, error) {
	switch name {
	case NameIdentification:
		var m Identification
		return decodeInto(data, &m, fields, "user_id")
	case NameCellSelected:
		var m CellSelected
		return decodeInto(data, &m, fields, "coordinates")
	case NameStart:
		var m GameStart
		return decodeInto(data, &m, fields, "board")
	case NameGameOver:
		var m GameOver
		return decodeInto(data, &m, fields, "winner_id")
	case NameError:
		var m Error
		return decodeInto(data, &m, fields, "code")
	}
	return Simple{Name: name}, nil
}

// decodeInto unmarshals data into m after checking the required keys
func decodeInto[T Message](data []byte, m *T, fields map[string]json.RawMessage, required ...string) (Message, error) {
	for _, key := range required {
		if !has(fields, key) {
			return nil, fmt.Errorf("%w: missing %q", ErrUnknownMessage, key)
		}
	}
	if err := json.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	return *m, nil
}

func has(fields map[string]json.RawMessage, key string) bool {
	raw, ok := fields[key]
	return ok && string(raw) != "null"
}

package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"regexp"
	"strconv"
)

const MaxRoomIDLen = 64

var (
	ErrRoomIDEmpty   = errors.New("room id empty")
	ErrRoomIDInvalid = errors.New("room id invalid")
)

var roomIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// RoomID names a broadcast domain. Clients may send it as a JSON string or integer;
// it is always written back as a string.
type RoomID string

func (id RoomID) Validate() error {
	if id == "" {
		return ErrRoomIDEmpty
	}
	if len(id) > MaxRoomIDLen || !roomIDPattern.MatchString(string(id)) {
		return ErrRoomIDInvalid
	}
	return nil
}

func (id *RoomID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = RoomID(s)
		return nil
	}
	n, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return ErrRoomIDInvalid
	}
	*id = RoomID(strconv.FormatInt(n, 10))
	return nil
}

type Room struct {
	ID          RoomID `json:"roomId"`
	MemberCount int    `json:"memberCount"`
}

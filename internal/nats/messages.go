package nats

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/smazurov/subjectlink/internal/livelink"
)

// Subject prefixes for NATS topics.
const (
	SubjectSubjectsPrefix = "subjectlink.subjects"
	SubjectControlPrefix  = "subjectlink.control"
)

// Message kinds, the last token of a subject topic.
const (
	KindStatic  = "static"
	KindFrame   = "frame"
	KindRemoved = "removed"
)

// ActionResync asks publishers to resend static data for every subject.
const ActionResync = "resync"

// tokenEscapes lists the characters NATS does not allow inside a token.
var tokenEscapes = strings.NewReplacer(
	"%", "%25",
	".", "%2E",
	" ", "%20",
	"\t", "%09",
	"*", "%2A",
	">", "%3E",
)

var tokenUnescapes = strings.NewReplacer(
	"%2E", ".",
	"%20", " ",
	"%09", "\t",
	"%2A", "*",
	"%3E", ">",
	"%25", "%",
)

// EncodeToken makes a subject name safe to use as one NATS token.
func EncodeToken(name livelink.SubjectName) string {
	return tokenEscapes.Replace(string(name))
}

// DecodeToken reverses EncodeToken.
func DecodeToken(token string) livelink.SubjectName {
	return livelink.SubjectName(tokenUnescapes.Replace(token))
}

// SubjectTopic returns the NATS subject for one message kind of a subject.
func SubjectTopic(name livelink.SubjectName, kind string) string {
	return fmt.Sprintf("%s.%s.%s", SubjectSubjectsPrefix, EncodeToken(name), kind)
}

// SubjectControlResync returns the NATS subject for resync requests.
func SubjectControlResync() string {
	return SubjectControlPrefix + "." + ActionResync
}

// ParseTopic splits a subject topic into subject name and message kind.
func ParseTopic(topic string) (livelink.SubjectName, string, bool) {
	rest, ok := strings.CutPrefix(topic, SubjectSubjectsPrefix+".")
	if !ok {
		return "", "", false
	}
	token, kind, ok := strings.Cut(rest, ".")
	if !ok || token == "" || strings.Contains(kind, ".") {
		return "", "", false
	}
	return DecodeToken(token), kind, true
}

// StaticMessage carries a subject's static data.
type StaticMessage struct {
	Source    string              `json:"source"`
	Subject   string              `json:"subject"`
	Role      livelink.Role       `json:"role"`
	Timestamp string              `json:"timestamp"`
	Data      livelink.StaticData `json:"data"`
}

// Marshal serializes the message to JSON.
func (m StaticMessage) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

// FrameMessage carries a subject's frame data.
type FrameMessage struct {
	Source    string             `json:"source"`
	Subject   string             `json:"subject"`
	Timestamp string             `json:"timestamp"`
	Data      livelink.FrameData `json:"data"`
}

// Marshal serializes the message to JSON.
func (m FrameMessage) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

// RemovedMessage announces a subject removal.
type RemovedMessage struct {
	Source    string `json:"source"`
	Subject   string `json:"subject"`
	Timestamp string `json:"timestamp"`
}

// Marshal serializes the message to JSON.
func (m RemovedMessage) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

// ControlMessage is a command sent to publishers.
type ControlMessage struct {
	Action    string `json:"action"` // resync
	Timestamp string `json:"timestamp"`
	Reason    string `json:"reason,omitempty"`
}

// Marshal serializes the message to JSON.
func (m ControlMessage) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

// UnmarshalStatic deserializes a StaticMessage from JSON.
func UnmarshalStatic(data []byte) (StaticMessage, error) {
	var m StaticMessage
	err := json.Unmarshal(data, &m)
	return m, err
}

// UnmarshalFrame deserializes a FrameMessage from JSON.
func UnmarshalFrame(data []byte) (FrameMessage, error) {
	var m FrameMessage
	err := json.Unmarshal(data, &m)
	return m, err
}

// UnmarshalRemoved deserializes a RemovedMessage from JSON.
func UnmarshalRemoved(data []byte) (RemovedMessage, error) {
	var m RemovedMessage
	err := json.Unmarshal(data, &m)
	return m, err
}

// UnmarshalControl deserializes a ControlMessage from JSON.
func UnmarshalControl(data []byte) (ControlMessage, error) {
	var m ControlMessage
	err := json.Unmarshal(data, &m)
	return m, err
}

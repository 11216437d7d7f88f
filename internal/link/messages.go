package link

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/smazurov/warpcore/internal/params"
)

// SubjectPrefix is the root of every warp core subject.
const SubjectPrefix = "warpcore"

// Status fields published alongside the parameters.
const (
	FieldFWVersion = "FWVersion"
	FieldFWDate    = "FWDate"
)

// SubjectParam returns the subject a parameter is set on.
func SubjectParam(thing string, name params.Name) string {
	return fmt.Sprintf("%s.%s.%s", SubjectPrefix, thing, name)
}

// SubjectStatus returns the subject a status field is published on.
func SubjectStatus(thing, field string) string {
	return fmt.Sprintf("%s.%s.status.%s", SubjectPrefix, thing, field)
}

// SubjectStatusJSON returns the subject carrying the whole status as JSON.
func SubjectStatusJSON(thing string) string {
	return fmt.Sprintf("%s.%s.status", SubjectPrefix, thing)
}

// ParamFromSubject extracts the parameter name from a set subject.
func ParamFromSubject(subject string) (params.Name, error) {
	i := strings.LastIndexByte(subject, '.')
	return params.ParseName(subject[i+1:])
}

// StatusField names the status subject token for a parameter. The warp
// factor is capitalised on the status side.
func StatusField(name params.Name) string {
	if name == params.WarpFactor {
		return "WarpFactor"
	}
	return string(name)
}

// SanitizeThing makes a thing name usable as a single subject token.
func SanitizeThing(thing string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', '*', '>', ' ', '\t', '\r', '\n':
			return '_'
		}
		return r
	}, thing)
}

// StatusValue is one status field as published.
type StatusValue struct {
	Field string
	Value string
}

// StatusValues returns the per-field status messages in publish order.
func StatusValues(status params.Status) []StatusValue {
	out := make([]StatusValue, 0, len(params.Names))
	for _, name := range params.Names {
		out = append(out, StatusValue{
			Field: StatusField(name),
			Value: strconv.Itoa(status.Value(name)),
		})
	}
	return out
}

// StatusMessage is the JSON status document.
type StatusMessage struct {
	Thing      string `json:"thing"`
	Timestamp  string `json:"timestamp"`
	WarpFactor int    `json:"warp_factor"`
	Hue        int    `json:"hue"`
	Saturation int    `json:"saturation"`
	Brightness int    `json:"brightness"`
	Pattern    int    `json:"pattern"`
	Source     string `json:"source,omitempty"`
}

// Marshal serializes the message to JSON.
func (m StatusMessage) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

// UnmarshalStatus deserializes a StatusMessage from JSON.
func UnmarshalStatus(data []byte) (StatusMessage, error) {
	var m StatusMessage
	err := json.Unmarshal(data, &m)
	return m, err
}

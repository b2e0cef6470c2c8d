package payermint

import (
	"encoding/json"
	"time"

	"github.com/payermint/payermint/errors"
)

// UnixTime represents a point in time as POSIX time. Instead of using Go's
// time.Time that includes nanoseconds this is a primitive int64 type with
// seconds precision, which serializes compactly and compares trivially.
type UnixTime int64

// Time returns a time.Time structure that represents the same moment in time.
func (t UnixTime) Time() time.Time {
	return time.Unix(int64(t), 0)
}

// IsZero returns true if this time represents a zero value.
func (t UnixTime) IsZero() bool {
	return t == 0
}

// Add modifies this UNIX time by the given duration. This is compatible with
// the time.Time.Add method.
func (t UnixTime) Add(d time.Duration) UnixTime {
	return t + UnixTime(d/time.Second)
}

// AsUnixTime converts a given Time structure into its UNIX time
// representation.
func AsUnixTime(t time.Time) UnixTime {
	return UnixTime(t.Unix())
}

// UnmarshalJSON supports unmarshaling both as time.Time and from a number.
// Usually a number is used as a representation of this time in JSON but it
// is convenient to use a string format in configurations (ie genesis file).
func (t *UnixTime) UnmarshalJSON(raw []byte) error {
	var unix int64
	if err := json.Unmarshal(raw, &unix); err == nil {
		if unix < 0 {
			return errors.Wrap(errors.ErrInput, "time before epoch")
		}
		*t = UnixTime(unix)
		return nil
	}

	var stdtime time.Time
	if err := json.Unmarshal(raw, &stdtime); err == nil {
		unix := UnixTime(stdtime.Unix())
		if unix < 0 {
			return errors.Wrap(errors.ErrInput, "time before epoch")
		}
		*t = unix
		return nil
	}

	return errors.Wrap(errors.ErrInput, "invalid time format")
}

// Validate returns an error if this time value is invalid.
func (t UnixTime) Validate() error {
	if t < 0 {
		return errors.Wrap(errors.ErrState, "negative value")
	}
	return nil
}

// String returns the usual string representation of this time as the
// time.Time structure would.
func (t UnixTime) String() string {
	return t.Time().UTC().String()
}

// UnixDuration represents a time duration with seconds precision.
type UnixDuration int32

// AsUnixDuration converts a time.Duration into an UnixDuration. Duration is
// converted with seconds precision, anything smaller is dropped.
func AsUnixDuration(d time.Duration) UnixDuration {
	return UnixDuration(d / time.Second)
}

// Duration returns the time.Duration representation of this duration.
func (d UnixDuration) Duration() time.Duration {
	return time.Duration(d) * time.Second
}

func (d *UnixDuration) UnmarshalJSON(raw []byte) error {
	// Prioritize the human readable format ("123s", "2h") over a number.
	var human string
	if err := json.Unmarshal(raw, &human); err == nil {
		dur, err := time.ParseDuration(human)
		if err != nil {
			return errors.Wrap(errors.ErrInput, "invalid duration string")
		}
		*d = AsUnixDuration(dur)
		return nil
	}

	var value int32
	if err := json.Unmarshal(raw, &value); err != nil {
		return errors.Wrap(errors.ErrInput, "invalid duration format")
	}
	*d = UnixDuration(value)
	return nil
}

// Validate returns an error if this duration value is invalid.
func (d UnixDuration) Validate() error {
	if d < 0 {
		return errors.Wrap(errors.ErrState, "negative value")
	}
	return nil
}

func (d UnixDuration) String() string {
	return d.Duration().String()
}

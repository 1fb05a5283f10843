package opt

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// A generic option type, which can set options on a request
type Opt func(*Options) error

// StreamFn receives text as it is generated, tagged with a role
// ("model" or "thinking")
type StreamFn func(role, text string)

// Options is a set of applied options. Scalar values are held as strings
// so they can be passed as query parameters, other values are held as-is.
type Options struct {
	url.Values
	any map[string]any
}

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// Apply returns a structure of applied options
func Apply(o ...Opt) (*Options, error) {
	opts := &Options{Values: make(url.Values), any: make(map[string]any)}
	for _, opt := range o {
		if opt == nil {
			continue
		}
		if err := opt(opts); err != nil {
			return nil, err
		}
	}
	return opts, nil
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Query returns the string values for the given keys
func (o *Options) Query(keys ...string) url.Values {
	query := make(url.Values)
	for _, key := range keys {
		if value, ok := o.Values[key]; ok {
			query[key] = value
		}
	}
	return query
}

// Set stores an arbitrary value for key
func (o *Options) Set(key string, value any) {
	o.any[key] = value
}

// Get returns the arbitrary value for key, or nil
func (o *Options) Get(key string) any {
	return o.any[key]
}

// GetString returns the trimmed value for key, or empty string if not set
func (o *Options) GetString(key string) string {
	if values, ok := o.Values[key]; ok && len(values) > 0 {
		return strings.TrimSpace(values[0])
	}
	return ""
}

// GetStringArray returns all values for key, each trimmed
func (o *Options) GetStringArray(key string) []string {
	values, ok := o.Values[key]
	if !ok {
		return nil
	}
	result := make([]string, len(values))
	for i, v := range values {
		result[i] = strings.TrimSpace(v)
	}
	return result
}

// GetBool returns true if key is present and not "false"
func (o *Options) GetBool(key string) bool {
	values, ok := o.Values[key]
	if !ok {
		return false
	}
	if len(values) > 0 {
		if v, err := strconv.ParseBool(values[0]); err == nil {
			return v
		}
	}
	return true
}

// GetFloat64 returns the float64 value for key, or 0 if not set or invalid
func (o *Options) GetFloat64(key string) float64 {
	if values, ok := o.Values[key]; ok && len(values) > 0 {
		if v, err := strconv.ParseFloat(strings.TrimSpace(values[0]), 64); err == nil {
			return v
		}
	}
	return 0
}

// GetUint returns the uint value for key, or 0 if not set or invalid
func (o *Options) GetUint(key string) uint {
	if values, ok := o.Values[key]; ok && len(values) > 0 {
		if v, err := strconv.ParseUint(strings.TrimSpace(values[0]), 10, 64); err == nil {
			return uint(v)
		}
	}
	return 0
}

// GetInt returns the int value for key, or 0 if not set or invalid
func (o *Options) GetInt(key string) int {
	if values, ok := o.Values[key]; ok && len(values) > 0 {
		if v, err := strconv.Atoi(strings.TrimSpace(values[0])); err == nil {
			return v
		}
	}
	return 0
}

// GetStream returns the stream callback, or nil
func (o *Options) GetStream() StreamFn {
	if fn, ok := o.any[StreamKey].(StreamFn); ok {
		return fn
	}
	return nil
}

// Has returns true if the key exists
func (o *Options) Has(key string) bool {
	if _, ok := o.Values[key]; ok {
		return true
	}
	_, ok := o.any[key]
	return ok
}

////////////////////////////////////////////////////////////////////////////////
// OPTIONS

// Error returns an option that always returns an error
func Error(err error) Opt {
	return func(o *Options) error {
		return err
	}
}

// NoOp returns an option which does nothing
func NoOp() Opt {
	return func(o *Options) error {
		return nil
	}
}

// WithOpts combines multiple options into a single option
func WithOpts(options ...Opt) Opt {
	return func(o *Options) error {
		for _, opt := range options {
			if opt == nil {
				continue
			}
			if err := opt(o); err != nil {
				return err
			}
		}
		return nil
	}
}

// SetString replaces the value for key
func SetString(key, value string) Opt {
	return func(o *Options) error {
		o.Values.Set(key, value)
		return nil
	}
}

// AddString appends values for key
func AddString(key string, value ...string) Opt {
	return func(o *Options) error {
		for _, v := range value {
			o.Values.Add(key, v)
		}
		return nil
	}
}

// SetUint replaces the value for key
func SetUint(key string, value uint) Opt {
	return func(o *Options) error {
		o.Values.Set(key, fmt.Sprint(value))
		return nil
	}
}

// AddUint appends values for key
func AddUint(key string, value ...uint) Opt {
	return func(o *Options) error {
		for _, v := range value {
			o.Values.Add(key, fmt.Sprint(v))
		}
		return nil
	}
}

// SetInt replaces the value for key
func SetInt(key string, value int) Opt {
	return func(o *Options) error {
		o.Values.Set(key, strconv.Itoa(value))
		return nil
	}
}

// SetFloat64 replaces the value for key
func SetFloat64(key string, value float64) Opt {
	return func(o *Options) error {
		o.Values.Set(key, strconv.FormatFloat(value, 'f', -1, 64))
		return nil
	}
}

// SetBool replaces the value for key
func SetBool(key string, value bool) Opt {
	return func(o *Options) error {
		o.Values.Set(key, strconv.FormatBool(value))
		return nil
	}
}

// SetAny replaces the arbitrary value for key
func SetAny(key string, value any) Opt {
	return func(o *Options) error {
		o.any[key] = value
		return nil
	}
}

// AddAny appends an arbitrary value to a slice held for key
func AddAny(key string, value any) Opt {
	return func(o *Options) error {
		existing, _ := o.any[key].([]any)
		o.any[key] = append(existing, value)
		return nil
	}
}

// WithStream sets a callback which receives generated text as it arrives
func WithStream(fn StreamFn) Opt {
	return func(o *Options) error {
		if fn == nil {
			return nil
		}
		o.any[StreamKey] = fn
		return nil
	}
}

// WithSystemPrompt sets the system instruction for a request
func WithSystemPrompt(value string) Opt {
	if strings.TrimSpace(value) == "" {
		return NoOp()
	}
	return SetString(SystemPromptKey, value)
}

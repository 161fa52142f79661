package loader

import (
	"strconv"
	"strings"
)

// Param is a single Uploadcare processing directive, rendered as key/value.
type Param struct {
	Key   string
	Value string
}

// Params is an ordered list of directives. Order is significant: the CDN
// applies operations left to right.
type Params []Param

// DefaultParams returns the directives applied to every transformed image.
func DefaultParams(width int) Params {
	return Params{
		{Key: "format", Value: "auto"},
		{Key: "stretch", Value: "off"},
		{Key: "progressive", Value: "yes"},
		{Key: "resize", Value: strconv.Itoa(width) + "x"},
		{Key: "quality", Value: "normal"},
	}
}

// ParseParams parses a comma separated list of key/value pairs such as
// "format/jpg, quality/smart". Entries without a key or a slash are skipped.
func ParseParams(raw string) Params {
	var params Params
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		key, value, ok := strings.Cut(entry, "/")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			continue
		}

		params = params.Set(key, strings.TrimSpace(value))
	}
	return params
}

// Get returns the value for key and whether it is present.
func (p Params) Get(key string) (string, bool) {
	for _, param := range p {
		if param.Key == key {
			return param.Value, true
		}
	}
	return "", false
}

// Set replaces the value of an existing key in place or appends a new one.
// The receiver is not modified.
func (p Params) Set(key, value string) Params {
	out := make(Params, len(p), len(p)+1)
	copy(out, p)
	for i := range out {
		if out[i].Key == key {
			out[i].Value = value
			return out
		}
	}
	return append(out, Param{Key: key, Value: value})
}

// Merge applies overrides on top of p.
func (p Params) Merge(overrides Params) Params {
	out := append(Params(nil), p...)
	for _, o := range overrides {
		out = out.Set(o.Key, o.Value)
	}
	return out
}

// Segment renders the directives as a URL path fragment:
// /-/key1/value1/-/key2/value2/
func (p Params) Segment() string {
	if len(p) == 0 {
		return "/"
	}

	var b strings.Builder
	for _, param := range p {
		b.WriteString("/-/")
		b.WriteString(param.Key)
		b.WriteByte('/')
		b.WriteString(param.Value)
	}
	b.WriteByte('/')
	return b.String()
}

package core

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/docker/go-units"
)

var paramCountPattern = regexp.MustCompile(`^([\d.]+)\s*([kKmMbB])?$`)

var paramUnits = []string{"", "K", "M", "B", "T"}

// ParamCount is a model's parameter count. Catalog artifacts carry it either
// as a number or as a string with a unit suffix ("0.3b", "350m").
type ParamCount struct {
	Value float64
	Known bool
}

// Params returns a known ParamCount.
func Params(v float64) ParamCount {
	return ParamCount{Value: v, Known: true}
}

// ParseParamCount parses "350m", "1.1B", "125k" or a bare number.
// Anything else is an unknown count, not an error.
func ParseParamCount(s string) ParamCount {
	match := paramCountPattern.FindStringSubmatch(strings.TrimSpace(s))
	if match == nil {
		return ParamCount{}
	}
	v, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return ParamCount{}
	}
	switch strings.ToLower(match[2]) {
	case "k":
		v *= 1e3
	case "m":
		v *= 1e6
	case "b":
		v *= 1e9
	}
	return Params(v)
}

// Ptr returns the count, or nil when unknown.
func (p ParamCount) Ptr() *float64 {
	if !p.Known {
		return nil
	}
	v := p.Value
	return &v
}

// String formats the count as "350M", "7B" and so on.
func (p ParamCount) String() string {
	if !p.Known {
		return ""
	}
	return FormatParams(p.Value)
}

// FormatParams renders a parameter count with a K/M/B/T suffix.
func FormatParams(v float64) string {
	return units.CustomSize("%.4g%s", v, 1000.0, paramUnits)
}

func (p *ParamCount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*p = ParamCount{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = ParseParamCount(s)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = Params(v)
	return nil
}

func (p ParamCount) MarshalJSON() ([]byte, error) {
	if !p.Known {
		return []byte("null"), nil
	}
	return json.Marshal(p.Value)
}

// StringList decodes either a JSON string or a JSON array of strings.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = SplitList(s)
		return nil
	}
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*l = items
	return nil
}

// SplitList splits "a, b" into its parts, dropping blanks.
func SplitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

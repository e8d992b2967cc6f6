package tools

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/shlex"
)

// bind decodes a tool argument mapping into a request struct. Keys the request does not
// declare are rejected.
func bind(args map[string]any, dst any) error {
	if args == nil {
		args = map[string]any{}
	}

	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidArguments, strings.TrimPrefix(err.Error(), "json: "))
	}
	return nil
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidArguments, field)
	}
	return nil
}

// Command is a command line given either as a list of arguments or as one string that
// is split with shell quoting rules.
type Command []string

func (c *Command) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		*c = nil
		return nil
	}

	var line string
	if err := json.Unmarshal(data, &line); err == nil {
		words, err := shlex.Split(line)
		if err != nil {
			return fmt.Errorf("command %q: %v", line, err)
		}
		*c = words
		return nil
	}

	var words []string
	if err := json.Unmarshal(data, &words); err != nil {
		return fmt.Errorf("command must be a string or a list of strings")
	}
	*c = words
	return nil
}

// Environment is a set of variables given as a mapping or as a list of KEY=VALUE strings.
type Environment map[string]string

func (e *Environment) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		*e = nil
		return nil
	}

	var mapping map[string]any
	if err := json.Unmarshal(data, &mapping); err == nil {
		env := make(Environment, len(mapping))
		for key, value := range mapping {
			s, err := scalar(value)
			if err != nil {
				return fmt.Errorf("environment %s: %v", key, err)
			}
			env[key] = s
		}
		*e = env
		return nil
	}

	var pairs []string
	if err := json.Unmarshal(data, &pairs); err != nil {
		return fmt.Errorf("environment must be a mapping or a list of KEY=VALUE strings")
	}

	env := make(Environment, len(pairs))
	for _, pair := range pairs {
		key, value, _ := strings.Cut(pair, "=")
		if key == "" {
			return fmt.Errorf("environment entry %q has no name", pair)
		}
		env[key] = value
	}
	*e = env
	return nil
}

// PortMap maps container ports ("80" or "80/udp") to host bindings. Each value may be a
// host port number, an "ip:port" string, a list of those, or null for an ephemeral port.
type PortMap map[string][]string

func (p *PortMap) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		*p = nil
		return nil
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("ports must be a mapping of container port to host binding")
	}

	ports := make(PortMap, len(raw))
	for port, value := range raw {
		var hosts []string
		switch v := value.(type) {
		case nil:
			hosts = nil
		case []any:
			for _, item := range v {
				s, err := scalar(item)
				if err != nil {
					return fmt.Errorf("ports %s: %v", port, err)
				}
				hosts = append(hosts, s)
			}
		default:
			s, err := scalar(v)
			if err != nil {
				return fmt.Errorf("ports %s: %v", port, err)
			}
			hosts = []string{s}
		}
		ports[port] = hosts
	}
	*p = ports
	return nil
}

// VolumeBinds is a list of bind specifications ("host:container[:mode]"), given either
// as that list or as a mapping of host path to {"bind": path, "mode": "rw"|"ro"}.
type VolumeBinds []string

func (v *VolumeBinds) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		*v = nil
		return nil
	}

	var binds []string
	if err := json.Unmarshal(data, &binds); err == nil {
		*v = binds
		return nil
	}

	var mapping map[string]struct {
		Bind string `json:"bind"`
		Mode string `json:"mode"`
	}
	if err := json.Unmarshal(data, &mapping); err != nil {
		return fmt.Errorf("volumes must be a list of bind strings or a mapping of host path to {bind, mode}")
	}

	hosts := make([]string, 0, len(mapping))
	for host := range mapping {
		hosts = append(hosts, host)
	}
	sort.Strings(hosts)

	binds = make([]string, 0, len(mapping))
	for _, host := range hosts {
		target := mapping[host]
		if target.Bind == "" {
			return fmt.Errorf("volumes %s: bind is required", host)
		}
		mode := target.Mode
		if mode == "" {
			mode = "rw"
		}
		binds = append(binds, host+":"+target.Bind+":"+mode)
	}
	*v = binds
	return nil
}

// Filters are engine list filters. Each value may be a single scalar or a list.
type Filters map[string][]string

func (f *Filters) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		*f = nil
		return nil
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("filters must be a mapping")
	}

	filters := make(Filters, len(raw))
	for key, value := range raw {
		switch v := value.(type) {
		case []any:
			for _, item := range v {
				s, err := scalar(item)
				if err != nil {
					return fmt.Errorf("filters %s: %v", key, err)
				}
				filters[key] = append(filters[key], s)
			}
		default:
			s, err := scalar(v)
			if err != nil {
				return fmt.Errorf("filters %s: %v", key, err)
			}
			filters[key] = []string{s}
		}
	}
	*f = filters
	return nil
}

// Tail is a log line count or "all".
type Tail string

func (t *Tail) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		*t = ""
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		count, err := strconv.Atoi(n.String())
		if err != nil || count < 0 {
			return fmt.Errorf("tail must be a non-negative integer or \"all\"")
		}
		*t = Tail(strconv.Itoa(count))
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("tail must be a non-negative integer or \"all\"")
	}
	if s == "all" {
		*t = Tail(s)
		return nil
	}
	count, err := strconv.Atoi(s)
	if err != nil || count < 0 {
		return fmt.Errorf("tail must be a non-negative integer or \"all\"")
	}
	*t = Tail(strconv.Itoa(count))
	return nil
}

func scalar(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10), nil
		}
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("expected a string, number, or boolean")
	}
}

func isNull(data []byte) bool {
	return string(bytes.TrimSpace(data)) == "null"
}

// result drops the value of a failed engine call so that errors always come with a nil result.
func result[T any](value T, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return value, nil
}

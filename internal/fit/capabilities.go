package fit

import "strings"

type Access int

const (
	AccessRead Access = iota
	AccessWrite
)

func (a Access) String() string {
	if a == AccessWrite {
		return "write"
	}
	return "read"
}

type Capability struct {
	DataType DataType
	Access   Access
}

func (c Capability) String() string {
	name := c.DataType.Name
	if c.DataType.Aggregate {
		name = "aggregate:" + name
	}
	return name + ":" + c.Access.String()
}

// Capabilities is the set of data scopes the application asks the platform
// for. It is built once and never mutated.
type Capabilities struct {
	items []Capability
}

// NewCapabilities keeps the first occurrence of each (type, access) pair.
func NewCapabilities(items ...Capability) Capabilities {
	seen := make(map[string]bool, len(items))
	out := make([]Capability, 0, len(items))
	for _, c := range items {
		key := c.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return Capabilities{items: out}
}

// DefaultCapabilities declares read access to step count and aggregated step
// count, plus write access to step count so the sample insert can succeed.
func DefaultCapabilities() Capabilities {
	return NewCapabilities(
		Capability{DataType: StepCountDelta, Access: AccessRead},
		Capability{DataType: AggregateStepCountDelta, Access: AccessRead},
		Capability{DataType: StepCountDelta, Access: AccessWrite},
	)
}

// Items returns a copy of the declared capabilities in declaration order.
func (c Capabilities) Items() []Capability {
	out := make([]Capability, len(c.items))
	copy(out, c.items)
	return out
}

func (c Capabilities) Len() int { return len(c.items) }

func (c Capabilities) String() string {
	parts := make([]string, len(c.items))
	for i, item := range c.items {
		parts[i] = item.String()
	}
	return strings.Join(parts, ",")
}

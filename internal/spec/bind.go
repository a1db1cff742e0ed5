package spec

import (
	"strings"
)

/**
 * Named dependency link from one service to a satisfying service group
 * @property {string} Name - Bind name; two binds occupy the same slot iff
 *                           their names match, whatever their groups
 * @property {ServiceGroup} ServiceGroup - Group that satisfies the bind
 * @property {string} ServiceName - Member service this bind targets inside a
 *                    composite; empty for a plain standalone bind
 */
type ServiceBind struct {
	Name         string
	ServiceGroup ServiceGroup
	ServiceName  string
}

// IsComposite reports whether the bind is scoped to one named member of a
// composite.
func (b ServiceBind) IsComposite() bool {
	return b.ServiceName != ""
}

/**
 * Parse a binding string
 * @param {string} s - Binding, either <bind>:<service_group> or
 *                     <service>:<bind>:<service_group>
 * @returns {ServiceBind} Parsed bind
 * @returns {error} *InvalidBindingError carrying s verbatim on a segment
 *                  count other than 2 or 3; service group parse errors
 *                  propagate as-is
 */
func ParseServiceBind(s string) (ServiceBind, error) {
	values := strings.Split(s, ":")
	if len(values) != 2 && len(values) != 3 {
		return ServiceBind{}, &InvalidBindingError{Binding: s}
	}
	if len(values) == 3 {
		group, err := ParseServiceGroup(values[2])
		if err != nil {
			return ServiceBind{}, err
		}
		return ServiceBind{
			Name:         values[1],
			ServiceGroup: group,
			ServiceName:  values[0],
		}, nil
	}
	group, err := ParseServiceGroup(values[1])
	if err != nil {
		return ServiceBind{}, err
	}
	return ServiceBind{
		Name:         values[0],
		ServiceGroup: group,
	}, nil
}

// String is the exact inverse of ParseServiceBind for the segments it
// renders. Composite binds synthesized by the resolver drop any organization
// their source carried, so format(parse(s)) == s does not hold for every s.
func (b ServiceBind) String() string {
	if b.IsComposite() {
		return b.ServiceName + ":" + b.Name + ":" + b.ServiceGroup.String()
	}
	return b.Name + ":" + b.ServiceGroup.String()
}

func (b ServiceBind) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b *ServiceBind) UnmarshalText(text []byte) error {
	parsed, err := ParseServiceBind(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

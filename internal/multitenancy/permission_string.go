package multitenancy

import (
	"strconv"
	"strings"
)

// Action is the operation half of a permission triple.
type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Access describes whose resources an action may touch.
type Access string

const (
	AccessOwn Access = "own"
	AccessAny Access = "any"
)

// ParsedPermission is the structured form of a permission string. A nil
// Access slice means the check matches regardless of access level.
type ParsedPermission struct {
	Action Action
	Entity string
	Access []Access
}

// ParsePermissionString parses the "action:entity" or
// "action:entity:access[,access]" wire format used by permission checks.
// Multiple access values are OR-ed: any one matching grant satisfies the
// check. Malformed input yields a ValidationError.
func ParsePermissionString(s string) (ParsedPermission, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return ParsedPermission{}, &ValidationError{
			Field:   "permission",
			Message: "expected \"action:entity\" or \"action:entity:access\", got " + strconv.Quote(s),
		}
	}

	action := Action(parts[0])
	switch action {
	case ActionCreate, ActionRead, ActionUpdate, ActionDelete:
	default:
		return ParsedPermission{}, &ValidationError{
			Field:   "action",
			Message: "unknown action " + strconv.Quote(parts[0]),
		}
	}

	entity := parts[1]
	if entity == "" {
		return ParsedPermission{}, &ValidationError{
			Field:   "entity",
			Message: "entity must not be empty",
		}
	}

	parsed := ParsedPermission{Action: action, Entity: entity}
	if len(parts) == 3 {
		for _, raw := range strings.Split(parts[2], ",") {
			access := Access(raw)
			switch access {
			case AccessOwn, AccessAny:
				parsed.Access = append(parsed.Access, access)
			default:
				return ParsedPermission{}, &ValidationError{
					Field:   "access",
					Message: "unknown access level " + strconv.Quote(raw),
				}
			}
		}
	}

	return parsed, nil
}

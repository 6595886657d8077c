// Package policy maps (role, resource, method class) onto allow/deny
// decisions. It is transport-agnostic: callers resolve the role and classify
// the method before asking for a decision.
package policy

import (
	"net/http"

	"github.com/shopcore/minishop/internal/shop/domain"
)

// Resource identifies a protected resource kind.
type Resource string

const (
	Users    Resource = "users"
	Products Resource = "products"
	Orders   Resource = "orders"
)

// MethodClass splits HTTP methods into read-only and mutating.
type MethodClass int

const (
	// Safe covers read-only methods (GET, HEAD, OPTIONS).
	Safe MethodClass = iota
	// Unsafe covers everything that mutates state.
	Unsafe
)

// ClassifyMethod maps an HTTP method onto its class.
func ClassifyMethod(method string) MethodClass {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return Safe
	default:
		return Unsafe
	}
}

// Decide returns whether role may perform a class of operation on a resource.
// item distinguishes single-object routes from collection routes; it only
// changes the outcome for Orders. Unauthenticated callers never reach this
// point, and superusers resolve to ADMIN before the check.
func Decide(role domain.Role, resource Resource, class MethodClass, item bool) bool {
	switch resource {
	case Users:
		switch role {
		case domain.RoleAdmin:
			return true
		case domain.RoleManager:
			return class == Safe
		default:
			return false
		}

	case Products:
		if class == Safe {
			return true
		}
		return role == domain.RoleAdmin || role == domain.RoleManager

	case Orders:
		if item {
			// Any authenticated role may read a single order; only an admin
			// may mutate one.
			if class == Safe {
				return true
			}
			return role == domain.RoleAdmin
		}
		switch role {
		case domain.RoleAdmin:
			return true
		case domain.RoleManager, domain.RoleStaff:
			return class == Safe
		default:
			return false
		}
	}

	return false
}

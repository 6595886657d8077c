package http

import (
	"time"

	"github.com/shopcore/minishop/internal/shop/domain"
	"github.com/shopcore/minishop/internal/shop/service"
	"github.com/shopcore/minishop/pkg/shopsdk"
)

func renderTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func renderOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return renderTime(*t)
}

func renderProfile(p service.Profile) shopsdk.UserResponse {
	groups := p.Groups
	if groups == nil {
		groups = []string{}
	}
	return shopsdk.UserResponse{
		ID:          p.User.ID,
		Username:    p.User.Username,
		Email:       p.User.Email,
		FirstName:   p.User.FirstName,
		LastName:    p.User.LastName,
		IsStaff:     p.User.IsStaff,
		IsSuperuser: p.User.IsSuperuser,
		Role:        p.Role.String(),
		Groups:      groups,
		CreatedAt:   renderTime(p.User.CreatedAt),
		UpdatedAt:   renderTime(p.User.UpdatedAt),
	}
}

func renderInvitation(inv domain.Invitation, now time.Time) shopsdk.InvitationResponse {
	return shopsdk.InvitationResponse{
		ID:        inv.ID,
		Email:     inv.Email,
		Role:      inv.Role.String(),
		Status:    string(inv.Status(now)),
		ExpiresAt: renderTime(inv.ExpiresAt),
		UsedAt:    renderOptionalTime(inv.UsedAt),
		RevokedAt: renderOptionalTime(inv.RevokedAt),
		InvitedBy: inv.InvitedBy,
		CreatedAt: renderTime(inv.CreatedAt),
	}
}

func renderProduct(p domain.Product) shopsdk.ProductResponse {
	return shopsdk.ProductResponse{
		ID:         p.ID,
		Name:       p.Name,
		SKU:        p.SKU,
		PriceCents: p.PriceCents,
		Stock:      p.Stock,
		IsActive:   p.IsActive,
		CreatedAt:  renderTime(p.CreatedAt),
		UpdatedAt:  renderTime(p.UpdatedAt),
	}
}

func renderOrder(o domain.Order) shopsdk.OrderResponse {
	items := make([]shopsdk.OrderItemResponse, 0, len(o.Items))
	var total int64
	for _, it := range o.Items {
		items = append(items, shopsdk.OrderItemResponse{
			ID:         it.ID,
			ProductID:  it.ProductID,
			Qty:        it.Qty,
			PriceCents: it.PriceCents,
		})
		total += it.Qty * it.PriceCents
	}
	return shopsdk.OrderResponse{
		ID:         o.ID,
		UserID:     o.UserID,
		Status:     string(o.Status),
		Items:      items,
		TotalCents: total,
		CreatedAt:  renderTime(o.CreatedAt),
		UpdatedAt:  renderTime(o.UpdatedAt),
	}
}

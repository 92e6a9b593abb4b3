package service

import (
	"slices"

	"artmarket-storefront/internal/dto"
	"artmarket-storefront/internal/model"
)

type Action string

const (
	ActionPay            Action = "pay"
	ActionShip           Action = "ship"
	ActionMarkDelivered  Action = "mark_delivered"
	ActionOpenDispute    Action = "open_dispute"
	ActionResolveDispute Action = "resolve_dispute"
)

// Viewer is who is looking at an order. A zero Viewer is anonymous.
type Viewer struct {
	UserID  string
	IsAdmin bool
}

func ViewerOf(session *model.Session) Viewer {
	if !session.Authenticated() {
		return Viewer{}
	}
	return Viewer{UserID: session.UserID, IsAdmin: session.IsAdmin}
}

// BuildOrderView derives the predicates and the actions the viewer may take.
// Nothing here is persisted; the backend still enforces every transition.
func BuildOrderView(order *model.Order, viewer Viewer, gateways []string) *dto.OrderView {
	disputeStatus := order.DisputeStatus()

	v := &dto.OrderView{
		Order:             order,
		IsPaid:            order.IsPaid,
		IsShipped:         order.IsShipped,
		IsDelivered:       order.Status == model.OrderStatusDelivered,
		IsBuyer:           viewer.UserID != "" && viewer.UserID == order.User.ID,
		IsSeller:          viewer.UserID != "" && slices.Contains(order.SellerIDs(), viewer.UserID),
		IsAdmin:           viewer.UserID != "" && viewer.IsAdmin,
		HasOpenDispute:    disputeStatus == model.DisputeStatusOpen,
		IsDisputeResolved: disputeStatus == model.DisputeStatusResolved,
		Actions:           []string{},
	}

	disputeClear := disputeStatus == model.DisputeStatusNone || v.IsDisputeResolved

	if !v.IsPaid && v.IsBuyer && disputeClear {
		v.Actions = append(v.Actions, string(ActionPay))
		v.PayGateways = slices.Clone(gateways)
	}
	if (v.IsSeller || v.IsAdmin) && v.IsPaid && !v.IsShipped && disputeClear {
		v.Actions = append(v.Actions, string(ActionShip))
	}
	if v.IsBuyer && v.IsShipped && !v.IsDelivered && disputeClear {
		v.Actions = append(v.Actions, string(ActionMarkDelivered))
	}
	if (v.IsBuyer || v.IsSeller) && disputeStatus == model.DisputeStatusNone {
		v.Actions = append(v.Actions, string(ActionOpenDispute))
	}
	if v.IsAdmin && v.HasOpenDispute {
		v.Actions = append(v.Actions, string(ActionResolveDispute))
	}

	return v
}

func allows(v *dto.OrderView, action Action) bool {
	return slices.Contains(v.Actions, string(action))
}

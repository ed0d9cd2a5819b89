// Package policy holds the access rules for items, requests and ratings.
// Every predicate is pure and takes the caller's user ID explicitly.
package policy

import "github.com/erazemk/izposoja/internal/model"

// CanEditItem reports whether caller may change an item's fields.
func CanEditItem(caller string, item *model.Item) bool {
	return caller != "" && caller == item.OwnerID
}

// CanDeleteItem reports whether caller may delete an item.
func CanDeleteItem(caller string, item *model.Item) bool {
	return CanEditItem(caller, item)
}

// CanCreateRequest reports whether caller may ask to borrow an item.
func CanCreateRequest(caller string, item *model.Item) bool {
	return caller != "" && caller != item.OwnerID
}

// IsParty reports whether caller is the requester or the item owner.
func IsParty(caller string, req *model.Request, item *model.Item) bool {
	return caller != "" && (caller == req.RequesterID || caller == item.OwnerID)
}

// CanViewRequest reports whether caller may see a request.
func CanViewRequest(caller string, req *model.Request, item *model.Item) bool {
	return IsParty(caller, req, item)
}

// CanUpdateRequestStatus reports whether caller may change a request's
// status at all. CanTransition applies the per-target role rule.
func CanUpdateRequestStatus(caller string, req *model.Request, item *model.Item) bool {
	return IsParty(caller, req, item)
}

// CanTransition reports whether caller may move a request to target.
// Only the owner approves or declines. Either party completes or cancels.
func CanTransition(caller string, req *model.Request, item *model.Item, target model.RequestStatus) bool {
	if !CanUpdateRequestStatus(caller, req, item) {
		return false
	}
	switch target {
	case model.RequestApproved, model.RequestDeclined:
		return caller == item.OwnerID
	default:
		return true
	}
}

// CanRate reports whether caller may rate the exchange behind req.
func CanRate(caller string, req *model.Request, item *model.Item) bool {
	return req.Status == model.RequestCompleted && IsParty(caller, req, item)
}

// OtherParty returns the participant of req that is not caller.
func OtherParty(caller string, req *model.Request, item *model.Item) string {
	if caller == item.OwnerID {
		return req.RequesterID
	}
	return item.OwnerID
}

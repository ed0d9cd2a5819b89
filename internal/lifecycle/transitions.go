package lifecycle

import "github.com/erazemk/izposoja/internal/model"

// edge is the item side effect and notification of one legal request
// transition. Notifications always go to the requester.
type edge struct {
	itemFrom model.ItemStatus
	itemTo   model.ItemStatus
	notify   model.NotificationType
}

type step struct {
	from, to model.RequestStatus
}

// transitions lists every legal request transition after creation.
// Anything absent, including leaving a terminal status, is illegal.
var transitions = map[step]edge{
	{model.RequestPending, model.RequestApproved}:   {model.ItemRequested, model.ItemBorrowed, model.NotifyRequestApproved},
	{model.RequestPending, model.RequestDeclined}:   {model.ItemRequested, model.ItemAvailable, model.NotifyRequestDeclined},
	{model.RequestApproved, model.RequestCompleted}: {model.ItemBorrowed, model.ItemAvailable, model.NotifyItemReturned},
	{model.RequestPending, model.RequestCancelled}:  {model.ItemRequested, model.ItemAvailable, ""},
	{model.RequestApproved, model.RequestCancelled}: {model.ItemBorrowed, model.ItemAvailable, ""},
}

// Allowed reports whether a request may move from one status to another.
func Allowed(from, to model.RequestStatus) bool {
	_, ok := transitions[step{from, to}]
	return ok
}

package models

// BookingStatus is the lifecycle state of a Booking.
type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusConfirmed  BookingStatus = "confirmed"
	BookingStatusInProgress BookingStatus = "in_progress"
	BookingStatusCompleted  BookingStatus = "completed"
	BookingStatusCancelled  BookingStatus = "cancelled"
	BookingStatusRejected   BookingStatus = "rejected"
	BookingStatusNoShow     BookingStatus = "no_show"
	BookingStatusDisputed   BookingStatus = "disputed"
)

// BookingAction is a requested transition on a Booking.
type BookingAction string

const (
	BookingActionAccept   BookingAction = "accept"
	BookingActionReject   BookingAction = "reject"
	BookingActionStart    BookingAction = "start"
	BookingActionComplete BookingAction = "complete"
	BookingActionCancel   BookingAction = "cancel"
	BookingActionNoShow   BookingAction = "no_show"
	BookingActionDispute  BookingAction = "dispute"
)

// bookingTransitions maps (current status, action) to the next status.
// Anything absent from the table is an illegal transition.
var bookingTransitions = map[BookingStatus]map[BookingAction]BookingStatus{
	BookingStatusPending: {
		BookingActionAccept: BookingStatusConfirmed,
		BookingActionReject: BookingStatusRejected,
		BookingActionCancel: BookingStatusCancelled,
	},
	BookingStatusConfirmed: {
		BookingActionStart:    BookingStatusInProgress,
		BookingActionComplete: BookingStatusCompleted,
		BookingActionCancel:   BookingStatusCancelled,
		BookingActionNoShow:   BookingStatusNoShow,
	},
	BookingStatusInProgress: {
		BookingActionComplete: BookingStatusCompleted,
	},
}

// NextBookingStatus resolves a transition against the table. The dispute
// action is an administrative override reachable from any non-terminal state.
func NextBookingStatus(current BookingStatus, action BookingAction) (BookingStatus, bool) {
	if action == BookingActionDispute {
		switch current {
		case BookingStatusCompleted, BookingStatusCancelled, BookingStatusRejected, BookingStatusDisputed:
			return "", false
		}
		return BookingStatusDisputed, true
	}
	next, ok := bookingTransitions[current][action]
	return next, ok
}

// RequestStatus is the lifecycle state of a BookingRequest (quote path).
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusQuoted    RequestStatus = "quoted"
	RequestStatusAccepted  RequestStatus = "accepted"
	RequestStatusRejected  RequestStatus = "rejected"
	RequestStatusCancelled RequestStatus = "cancelled"
	RequestStatusExpired   RequestStatus = "expired"
)

// RequestAction is a requested transition on a BookingRequest.
type RequestAction string

const (
	RequestActionQuote  RequestAction = "quote"
	RequestActionAccept RequestAction = "accept"
	RequestActionReject RequestAction = "reject"
	RequestActionCancel RequestAction = "cancel"
	RequestActionExpire RequestAction = "expire"
)

var requestTransitions = map[RequestStatus]map[RequestAction]RequestStatus{
	RequestStatusPending: {
		RequestActionQuote:  RequestStatusQuoted,
		RequestActionReject: RequestStatusRejected,
		RequestActionCancel: RequestStatusCancelled,
	},
	RequestStatusQuoted: {
		RequestActionAccept: RequestStatusAccepted,
		RequestActionReject: RequestStatusRejected,
		RequestActionCancel: RequestStatusCancelled,
		RequestActionExpire: RequestStatusExpired,
	},
}

// NextRequestStatus resolves a quote-path transition against the table.
func NextRequestStatus(current RequestStatus, action RequestAction) (RequestStatus, bool) {
	next, ok := requestTransitions[current][action]
	return next, ok
}

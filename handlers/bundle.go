package handlers

// HandlerBundle aggregates the handlers so route registration takes one
// dependency.
type HandlerBundle struct {
	Schedule *ScheduleHandler
	Booking  *BookingHandler
	Request  *RequestHandler
}

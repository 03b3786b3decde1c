package handlers

// HandlerBundle groups the endpoint handlers the router needs.
type HandlerBundle struct {
	Booking       *BookingHandler
	Admin         *AdminHandler
	Device        *DeviceHandler
	Notifications *NotificationHandler
	Realtime      *RealtimeHandler
}

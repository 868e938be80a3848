package dto

// SettingsResponse is the clinic configuration in effect, shown on the settings page.
type SettingsResponse struct {
	Timezone            string   `json:"timezone"`
	SlotMinutes         int      `json:"slot_minutes"`
	CancelledFreesSlot  bool     `json:"cancelled_frees_slot"`
	OnlineBookingReason string   `json:"online_booking_reason"`
	DefaultAvatar       string   `json:"default_avatar"`
	RevenueWindowDays   int      `json:"revenue_window_days"`
	Permissions         []string `json:"permissions"`
}

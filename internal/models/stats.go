package models

// BackofficeOverview is the dashboard summary shown to back-office users.
type BackofficeOverview struct {
	TotalProfiles     int64 `json:"totalProfiles"`
	ActiveOffers      int   `json:"activeOffers"`
	ActiveRequests    int   `json:"activeRequests"`
	PendingValidation int   `json:"pendingValidation"`
}

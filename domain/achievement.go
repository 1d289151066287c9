package domain

type Tier string

const (
	TierBronze   Tier = "bronze"
	TierSilver   Tier = "silver"
	TierGold     Tier = "gold"
	TierPlatinum Tier = "platinum"
)

// Achievement is a derived progress entry. It is recomputed on demand from
// the viewer's visible tasks and never persisted.
type Achievement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Tier        Tier   `json:"tier"`
	Requirement int    `json:"requirement"`
	Progress    int    `json:"progress"`
}

// Earned reports whether the raw progress meets the requirement. Progress
// is never clamped here; display clamping is the caller's concern.
func (a *Achievement) Earned() bool {
	return a != nil && a.Progress >= a.Requirement
}

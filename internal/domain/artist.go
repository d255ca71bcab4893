package domain

import "time"

type Artist struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ExternalProfilePath      string     `json:"external_profile_path,omitempty"`
	ExternalProfileSource    string     `json:"external_profile_source,omitempty"`
	ExternalProfileUpdatedAt *time.Time `json:"external_profile_updated_at,omitempty"`
	LocalProfilePath         string     `json:"local_profile_path,omitempty"`
	LocalProfileUpdatedAt    *time.Time `json:"local_profile_updated_at,omitempty"`

	ExternalBackgroundPath      string     `json:"external_background_path,omitempty"`
	ExternalBackgroundSource    string     `json:"external_background_source,omitempty"`
	ExternalBackgroundUpdatedAt *time.Time `json:"external_background_updated_at,omitempty"`
	LocalBackgroundPath         string     `json:"local_background_path,omitempty"`
	LocalBackgroundUpdatedAt    *time.Time `json:"local_background_updated_at,omitempty"`

	ExternalBannerPath      string     `json:"external_banner_path,omitempty"`
	ExternalBannerSource    string     `json:"external_banner_source,omitempty"`
	ExternalBannerUpdatedAt *time.Time `json:"external_banner_updated_at,omitempty"`
	LocalBannerPath         string     `json:"local_banner_path,omitempty"`
	LocalBannerUpdatedAt    *time.Time `json:"local_banner_updated_at,omitempty"`

	ExternalLogoPath      string     `json:"external_logo_path,omitempty"`
	ExternalLogoSource    string     `json:"external_logo_source,omitempty"`
	ExternalLogoUpdatedAt *time.Time `json:"external_logo_updated_at,omitempty"`
	LocalLogoPath         string     `json:"local_logo_path,omitempty"`
	LocalLogoUpdatedAt    *time.Time `json:"local_logo_updated_at,omitempty"`
}

func (a *Artist) EntityID() int64    { return a.ID }
func (a *Artist) EntityName() string { return a.Name }
func (a *Artist) Kind() EntityKind   { return KindArtist }

func (a *Artist) SlotState(slot ImageSlot) (SlotState, bool) {
	switch slot {
	case SlotProfile:
		return SlotState{
			ExternalPath:      a.ExternalProfilePath,
			ExternalSource:    a.ExternalProfileSource,
			ExternalUpdatedAt: a.ExternalProfileUpdatedAt,
			LocalPath:         a.LocalProfilePath,
			LocalUpdatedAt:    a.LocalProfileUpdatedAt,
		}, true
	case SlotBackground:
		return SlotState{
			ExternalPath:      a.ExternalBackgroundPath,
			ExternalSource:    a.ExternalBackgroundSource,
			ExternalUpdatedAt: a.ExternalBackgroundUpdatedAt,
			LocalPath:         a.LocalBackgroundPath,
			LocalUpdatedAt:    a.LocalBackgroundUpdatedAt,
		}, true
	case SlotBanner:
		return SlotState{
			ExternalPath:      a.ExternalBannerPath,
			ExternalSource:    a.ExternalBannerSource,
			ExternalUpdatedAt: a.ExternalBannerUpdatedAt,
			LocalPath:         a.LocalBannerPath,
			LocalUpdatedAt:    a.LocalBannerUpdatedAt,
		}, true
	case SlotLogo:
		return SlotState{
			ExternalPath:      a.ExternalLogoPath,
			ExternalSource:    a.ExternalLogoSource,
			ExternalUpdatedAt: a.ExternalLogoUpdatedAt,
			LocalPath:         a.LocalLogoPath,
			LocalUpdatedAt:    a.LocalLogoUpdatedAt,
		}, true
	}
	return SlotState{}, false
}

func (a *Artist) SetSlotExternal(slot ImageSlot, path, source string, at time.Time) bool {
	switch slot {
	case SlotProfile:
		a.ExternalProfilePath = path
		a.ExternalProfileSource = source
		a.ExternalProfileUpdatedAt = &at
	case SlotBackground:
		a.ExternalBackgroundPath = path
		a.ExternalBackgroundSource = source
		a.ExternalBackgroundUpdatedAt = &at
	case SlotBanner:
		a.ExternalBannerPath = path
		a.ExternalBannerSource = source
		a.ExternalBannerUpdatedAt = &at
	case SlotLogo:
		a.ExternalLogoPath = path
		a.ExternalLogoSource = source
		a.ExternalLogoUpdatedAt = &at
	default:
		return false
	}
	return true
}

func (a *Artist) ClearSlotExternal(slot ImageSlot) bool {
	switch slot {
	case SlotProfile:
		a.ExternalProfilePath = ""
		a.ExternalProfileSource = ""
		a.ExternalProfileUpdatedAt = nil
	case SlotBackground:
		a.ExternalBackgroundPath = ""
		a.ExternalBackgroundSource = ""
		a.ExternalBackgroundUpdatedAt = nil
	case SlotBanner:
		a.ExternalBannerPath = ""
		a.ExternalBannerSource = ""
		a.ExternalBannerUpdatedAt = nil
	case SlotLogo:
		a.ExternalLogoPath = ""
		a.ExternalLogoSource = ""
		a.ExternalLogoUpdatedAt = nil
	default:
		return false
	}
	return true
}

func (a *Artist) SetSlotLocal(slot ImageSlot, path string, at time.Time) bool {
	switch slot {
	case SlotProfile:
		a.LocalProfilePath = path
		a.LocalProfileUpdatedAt = &at
	case SlotBackground:
		a.LocalBackgroundPath = path
		a.LocalBackgroundUpdatedAt = &at
	case SlotBanner:
		a.LocalBannerPath = path
		a.LocalBannerUpdatedAt = &at
	case SlotLogo:
		a.LocalLogoPath = path
		a.LocalLogoUpdatedAt = &at
	default:
		return false
	}
	return true
}

func (a *Artist) ClearSlotLocal(slot ImageSlot) bool {
	switch slot {
	case SlotProfile:
		a.LocalProfilePath = ""
		a.LocalProfileUpdatedAt = nil
	case SlotBackground:
		a.LocalBackgroundPath = ""
		a.LocalBackgroundUpdatedAt = nil
	case SlotBanner:
		a.LocalBannerPath = ""
		a.LocalBannerUpdatedAt = nil
	case SlotLogo:
		a.LocalLogoPath = ""
		a.LocalLogoUpdatedAt = nil
	default:
		return false
	}
	return true
}

package models

// Settings is the singleton system configuration. The registration fee is the
// only value an admin can change at runtime; BoxValue is the default rate for
// items created without one.
type Settings struct {
	RegistrationFee float64 `json:"registrationFee"`
	BoxValue        float64 `json:"boxValue"`
}

// SettingKeyRegistrationFee is the keyed row in the settings table holding the
// registration fee.
const SettingKeyRegistrationFee = 1

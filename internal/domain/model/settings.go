package model

import "github.com/shopspring/decimal"

// SettingsID is the fixed primary key of the single settings row.
const SettingsID = 1

const DefaultPlatformName = "ReDiscoverU"

// DefaultLifetimePrice applies when the settings row has not been created yet.
func DefaultLifetimePrice() decimal.Decimal {
	return decimal.RequireFromString("499.00")
}

// Settings is the singleton platform configuration row. The lifetime price is
// admin-editable and read at every purchase initiation.
type Settings struct {
	ID            int64
	LifetimePrice decimal.Decimal
	PlatformName  string
}

func DefaultSettings() *Settings {
	return &Settings{
		ID:            SettingsID,
		LifetimePrice: DefaultLifetimePrice(),
		PlatformName:  DefaultPlatformName,
	}
}

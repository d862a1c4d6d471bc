package util

import (
	"errors"
	"fmt"
)

// AccountType selects a login flow.
type AccountType string

const (
	AccountOffline   AccountType = "offline"
	AccountMicrosoft AccountType = "microsoft"
	AccountMojang    AccountType = "mojang"
)

// Account describes the account a session logs in with. Username is optional and only used by offline
// accounts; Email and Password are required for mojang accounts.
type Account struct {
	Type     AccountType `yaml:"type"`
	Username string      `yaml:"username,omitempty"`
	Email    string      `yaml:"email,omitempty"`
	Password string      `yaml:"password,omitempty"`
}

// Validate checks that the fields the account type needs are present.
func (a Account) Validate() error {
	switch a.Type {
	case AccountOffline, AccountMicrosoft:
		return nil
	case AccountMojang:
		if a.Email == "" || a.Password == "" {
			return errors.New("mojang account requires email and password")
		}
		return nil
	default:
		return fmt.Errorf("unknown account type %q", a.Type)
	}
}

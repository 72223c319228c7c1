// SPDX-License-Identifier: MPL-2.0

// Package account supplies the identity tuple a launched client is started
// with. Authentication is out of scope: accounts are read from a profile file
// or derived offline from a player name.
package account

import (
	"crypto/md5"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"
)

const (
	// UserTypeMojang is the only user type the launch arguments carry.
	UserTypeMojang = "mojang"

	// OfflineAccessToken is passed to clients started without a session.
	OfflineAccessToken = "0"
)

var (
	// ErrInvalidAccount is the sentinel wrapped by InvalidAccountError.
	ErrInvalidAccount = errors.New("invalid account")
)

type (
	// Account is the identity tuple handed to the launch argument compiler.
	// It is never mutated or refreshed by the provisioning engine.
	Account struct {
		PlayerName  string `toml:"player_name"`
		PlayerUUID  string `toml:"player_uuid"`
		AccessToken string `toml:"access_token"`
		UserType    string `toml:"user_type"`
	}

	// InvalidAccountError is returned when an account has unusable fields.
	InvalidAccountError struct {
		Field  string
		Reason string
	}
)

// Error implements the error interface.
func (e *InvalidAccountError) Error() string {
	return fmt.Sprintf("invalid account %s: %s", e.Field, e.Reason)
}

// Unwrap returns ErrInvalidAccount for errors.Is() compatibility.
func (e *InvalidAccountError) Unwrap() error { return ErrInvalidAccount }

// Offline builds an account for name with the name-derived UUID offline
// servers expect.
func Offline(name string) (Account, error) {
	if strings.TrimSpace(name) == "" {
		return Account{}, &InvalidAccountError{Field: "player_name", Reason: "must not be empty"}
	}
	return Account{
		PlayerName:  name,
		PlayerUUID:  Undashed(OfflineUUID(name)),
		AccessToken: OfflineAccessToken,
		UserType:    UserTypeMojang,
	}, nil
}

// OfflineUUID returns the version 3 UUID of "OfflinePlayer:<name>", hashed
// without a namespace.
func OfflineUUID(name string) uuid.UUID {
	sum := md5.Sum([]byte("OfflinePlayer:" + name))
	sum[6] = sum[6]&0x0f | 0x30
	sum[8] = sum[8]&0x3f | 0x80
	return uuid.UUID(sum)
}

// Undashed formats u without separators, the way session services return it.
func Undashed(u uuid.UUID) string {
	return strings.ReplaceAll(u.String(), "-", "")
}

// Normalize validates a and fills defaults: a missing UUID is derived offline,
// a missing token becomes OfflineAccessToken and the user type is always mojang.
func Normalize(a Account) (Account, error) {
	if strings.TrimSpace(a.PlayerName) == "" {
		return Account{}, &InvalidAccountError{Field: "player_name", Reason: "must not be empty"}
	}
	if a.PlayerUUID == "" {
		a.PlayerUUID = Undashed(OfflineUUID(a.PlayerName))
	} else {
		u, err := uuid.Parse(a.PlayerUUID)
		if err != nil {
			return Account{}, &InvalidAccountError{Field: "player_uuid", Reason: err.Error()}
		}
		a.PlayerUUID = Undashed(u)
	}
	if a.AccessToken == "" {
		a.AccessToken = OfflineAccessToken
	}
	a.UserType = UserTypeMojang
	return a, nil
}

// LoadProfile reads an account from a TOML profile file.
func LoadProfile(path string) (Account, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Account{}, fmt.Errorf("reading account profile: %w", err)
	}
	var a Account
	if err := toml.Unmarshal(data, &a); err != nil {
		return Account{}, fmt.Errorf("parsing account profile %s: %w", path, err)
	}
	return Normalize(a)
}

// SaveProfile writes a to path as TOML, creating parent directories. The file
// holds a token and is written owner-readable only.
func SaveProfile(path string, a Account) error {
	data, err := toml.Marshal(a)
	if err != nil {
		return fmt.Errorf("encoding account profile: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating profile directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing account profile: %w", err)
	}
	return nil
}

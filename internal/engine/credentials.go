package engine

import (
	"log/slog"
	"os"

	"github.com/zalando/go-keyring"

	"github.com/tartampluch/life-in-weeks/internal/config"
)

// LookupPassword returns the stored password for a remote vCard user. The
// OS keyring is asked first, then the environment. An empty user or a miss
// everywhere yields "".
func LookupPassword(user string) string {
	if user == "" {
		return ""
	}

	p, err := keyring.Get(config.KeyringService, user)
	if err == nil {
		return p
	}
	slog.Debug(config.MsgPassFail,
		config.LogKeyUser, user,
		config.LogKeyError, err,
		config.LogKeyComponent, config.CompVCard)

	return os.Getenv(config.EnvVCardPass)
}

// StorePassword saves a password in the OS keyring for later runs. Empty
// users or passwords are ignored.
func StorePassword(user, pass string) error {
	if user == "" || pass == "" {
		return nil
	}
	if err := keyring.Set(config.KeyringService, user, pass); err != nil {
		return err
	}
	slog.Info(config.MsgPassStored,
		config.LogKeyUser, user,
		config.LogKeyComponent, config.CompVCard)
	return nil
}

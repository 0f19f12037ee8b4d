package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"time"

	"github.com/emersion/go-vcard"
	"github.com/tartampluch/life-in-weeks/internal/config"
)

// VCardSource locates a vCard holding the birthdate: a local path or an
// http(s) URL with optional credentials.
type VCardSource struct {
	Location string
	User     string
	Pass     string
}

// IsRemote reports whether the location is an http(s) URL.
func (s VCardSource) IsRemote() bool {
	u, err := url.Parse(s.Location)
	return err == nil && (u.Scheme == config.SchemeHTTP || u.Scheme == config.SchemeHTTPS)
}

// OpenVCard opens src, going through fetcher for remote locations.
func OpenVCard(ctx context.Context, src VCardSource, fetcher VCardFetcher) (io.ReadCloser, error) {
	if src.IsRemote() {
		if fetcher == nil {
			fetcher = NewHTTPFetcher()
		}
		rc, err := fetcher.Fetch(ctx, src.Location, src.User, src.Pass)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrVCardOpen, err)
		}
		return rc, nil
	}

	f, err := os.Open(src.Location)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrVCardOpen, err)
	}
	return f, nil
}

// ReadVCardBirthdate returns the name and birthdate of the first card with a
// full BDAY. Cards without a birthday, or with a year-less one, are skipped.
func ReadVCardBirthdate(r io.Reader) (string, time.Time, error) {
	decoder := vcard.NewDecoder(r)

	for {
		card, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", time.Time{}, fmt.Errorf("%s: %w", config.ErrVCardParse, err)
		}

		bday := card.Get(config.VCardBDAY)
		if bday == nil || bday.Value == "" {
			continue
		}

		birth, err := ParseBirthdate(bday.Value)
		if err != nil {
			slog.Debug(config.MsgSkippedDate,
				config.LogKeyComponent, config.CompVCard,
				config.LogKeyValue, bday.Value,
				config.LogKeyError, err)
			continue
		}

		name := config.DefaultName
		if fn := card.Get(config.VCardFN); fn != nil && fn.Value != "" {
			name = fn.Value
		} else if n := card.Get(config.VCardN); n != nil && n.Value != "" {
			name = n.Value
		}

		slog.Info(config.MsgVCardFound,
			config.LogKeyComponent, config.CompVCard,
			config.LogKeyName, name,
			config.LogKeyDOB, birth.Format(config.DateFormatFullDash))
		return name, birth, nil
	}

	return "", time.Time{}, fmt.Errorf("%w: %w", ErrInvalidInput, ErrNoBirthday)
}

// LoadVCardBirthdate opens src and reads the birthdate from it.
func LoadVCardBirthdate(ctx context.Context, src VCardSource, fetcher VCardFetcher) (string, time.Time, error) {
	rc, err := OpenVCard(ctx, src, fetcher)
	if err != nil {
		return "", time.Time{}, err
	}
	defer func() { _ = rc.Close() }()

	return ReadVCardBirthdate(rc)
}

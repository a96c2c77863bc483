package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/emersion/go-vcard"
	"github.com/tartampluch/go-assistant/internal/config"
	"github.com/tartampluch/go-assistant/internal/directory"
	"github.com/tartampluch/go-assistant/internal/domain"
)

// VCardBackend stores the directory as a vCard 4.0 file, one card per contact.
type VCardBackend struct {
	Path  string
	Clock domain.Clock
}

// Load implements Backend.
func (b *VCardBackend) Load() (*directory.Directory, error) {
	raw, err := readFile(b.Path)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return directory.New(), nil
	}
	data, err := decodeCards(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	return rebuild(data, b.Clock, b.Path), nil
}

// Save implements Backend.
func (b *VCardBackend) Save(d *directory.Directory) error {
	return writeAtomic(b.Path, func(w io.Writer) error {
		return ExportVCard(w, d.All())
	})
}

// ImportVCard merges the cards read from r into d. Cards whose name already
// exists extend that contact with the phones and emails it lacks. Cards without
// a valid name are skipped and invalid values are dropped from the rest. It
// returns the number of cards applied.
func ImportVCard(r io.Reader, d *directory.Directory, clock domain.Clock) (int, error) {
	data, err := decodeCards(r)
	if err != nil {
		return 0, err
	}

	now := clock.Now()
	applied := 0
	for _, item := range data {
		incoming, dropped, err := directory.FromData(item, now)
		warnDropped(config.SourceImport, item.Name, dropped)
		if err != nil {
			slog.Warn(config.MsgSkippedCard,
				config.LogKeyComponent, config.CompStorage,
				config.LogKeyName, item.Name,
				config.LogKeyError, err)
			continue
		}
		if existing, ok := d.Find(incoming.Name()); ok {
			merge(existing, incoming)
		} else if err := d.Put(incoming); err != nil {
			return applied, err
		}
		applied++
	}

	slog.Info(config.MsgVCardImported,
		config.LogKeyComponent, config.CompStorage,
		config.LogKeyCount, applied)
	return applied, nil
}

// ExportVCard writes one vCard 4.0 card per record.
func ExportVCard(w io.Writer, records []*directory.Record) error {
	enc := vcard.NewEncoder(w)
	for _, r := range records {
		if err := enc.Encode(toCard(r.Data())); err != nil {
			return fmt.Errorf("%s: %w", config.ErrVCardEncode, err)
		}
	}
	return nil
}

func merge(dst, src *directory.Record) {
	for _, p := range src.Phones() {
		if _, ok := dst.FindPhone(p.String()); !ok {
			dst.AddPhone(p)
		}
	}
	have := make(map[string]bool)
	for _, e := range dst.Emails() {
		have[e.String()] = true
	}
	for _, e := range src.Emails() {
		if !have[e.String()] {
			dst.AddEmail(e)
		}
	}
	if _, ok := dst.Address(); !ok {
		if a, ok := src.Address(); ok {
			dst.SetAddress(a)
		}
	}
	if _, ok := dst.Birthday(); !ok {
		if bd, ok := src.Birthday(); ok {
			dst.SetBirthday(bd)
		}
	}
}

func decodeCards(r io.Reader) ([]directory.Data, error) {
	dec := vcard.NewDecoder(r)
	var out []directory.Data
	for {
		card, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return out, fmt.Errorf("%s: %w", config.ErrVCardParse, err)
		}
		d, ok := fromCard(card)
		if !ok {
			slog.Warn(config.MsgSkippedCard,
				config.LogKeyComponent, config.CompStorage,
				config.LogKeyError, config.ErrCardNoName)
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

// fromCard maps a card onto the plain record form. Name strategy: FN, then N.
func fromCard(card vcard.Card) (directory.Data, bool) {
	d := directory.Data{Name: strings.TrimSpace(card.Value(vcard.FieldFormattedName))}
	if d.Name == "" {
		if n := card.Name(); n != nil {
			d.Name = strings.TrimSpace(strings.Join(nonEmpty(n.GivenName, n.FamilyName), " "))
		}
	}
	if d.Name == "" {
		return d, false
	}

	d.Phones = card.Values(vcard.FieldTelephone)
	d.Emails = card.Values(vcard.FieldEmail)
	if a := card.Address(); a != nil {
		d.Address = a.StreetAddress
		if d.Address == "" {
			d.Address = strings.Join(nonEmpty(a.Locality, a.Region, a.PostalCode, a.Country), ", ")
		}
	}
	if bday := card.Value(vcard.FieldBirthday); bday != "" {
		// Year-less dates (--MMDD) have no place in the directory; drop them.
		if t, err := domain.ParseDate(bday); err == nil {
			d.Birthday = t.Format(config.DateFormatISO)
		} else {
			slog.Debug(config.MsgSkippedDate,
				config.LogKeyComponent, config.CompStorage,
				config.LogKeyName, d.Name,
				config.LogKeyValue, bday)
		}
	}
	return d, true
}

func toCard(d directory.Data) vcard.Card {
	card := make(vcard.Card)
	card.SetValue(vcard.FieldVersion, config.VCardVersion)
	card.SetValue(vcard.FieldFormattedName, d.Name)
	card.SetName(&vcard.Name{GivenName: d.Name})
	for _, p := range d.Phones {
		card.AddValue(vcard.FieldTelephone, p)
	}
	for _, e := range d.Emails {
		card.AddValue(vcard.FieldEmail, e)
	}
	if d.Address != "" {
		card.AddAddress(&vcard.Address{StreetAddress: d.Address})
	}
	if d.Birthday != "" {
		card.SetValue(vcard.FieldBirthday, d.Birthday)
	}
	return card
}

func nonEmpty(parts ...string) []string {
	out := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

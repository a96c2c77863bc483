package directory

import (
	"time"

	"github.com/tartampluch/go-assistant/internal/config"
	"github.com/tartampluch/go-assistant/internal/domain"
)

// Data is the plain, encoding-friendly form of a Record used by the storage backends.
type Data struct {
	Name     string   `json:"name"`
	Phones   []string `json:"phones,omitempty"`
	Emails   []string `json:"emails,omitempty"`
	Address  string   `json:"address,omitempty"`
	Birthday string   `json:"birthday,omitempty"` // YYYY-MM-DD
}

// Data returns the plain form of r.
func (r *Record) Data() Data {
	d := Data{Name: r.name.String()}
	for _, p := range r.phones {
		d.Phones = append(d.Phones, p.String())
	}
	for _, e := range r.emails {
		d.Emails = append(d.Emails, e.String())
	}
	if r.address != nil {
		d.Address = r.address.String()
	}
	if r.birthday != nil {
		d.Birthday = r.birthday.Value().Format(config.DateFormatISO)
	}
	return d
}

// FromData rebuilds a Record, running every value through its field constructor.
// Only an invalid name fails the whole record. Any other value that no longer
// validates is left out and reported in dropped, so a loader keeps the contact.
func FromData(d Data, now time.Time) (r *Record, dropped []error, err error) {
	name, err := domain.NewName(d.Name)
	if err != nil {
		return nil, nil, err
	}
	r = NewRecord(name)

	for _, raw := range d.Phones {
		p, err := domain.NewPhone(raw)
		if err != nil {
			dropped = append(dropped, err)
			continue
		}
		r.AddPhone(p)
	}
	for _, raw := range d.Emails {
		e, err := domain.NewEmail(raw)
		if err != nil {
			dropped = append(dropped, err)
			continue
		}
		r.AddEmail(e)
	}
	if d.Address != "" {
		r.SetAddress(domain.NewAddress(d.Address))
	}
	if d.Birthday != "" {
		b, err := domain.NewBirthday(d.Birthday, now)
		if err != nil {
			dropped = append(dropped, err)
		} else {
			r.SetBirthday(b)
		}
	}
	return r, dropped, nil
}

// Snapshot returns the plain form of every record in d, in storage order.
func (d *Directory) Snapshot() []Data {
	records := d.All()
	out := make([]Data, 0, len(records))
	for _, r := range records {
		out = append(out, r.Data())
	}
	return out
}

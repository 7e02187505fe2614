package www

import (
	"time"

	"fabcatalogue/store"
)

// Output projections. Foreign-key ids and password hashes never appear here;
// parents are expanded into nested read-only objects instead.

type countryView struct {
	ID      int64  `json:"id"`
	Country string `json:"country"`
}

type currencyView struct {
	ID           int64  `json:"id"`
	CurrencyAbbr string `json:"currency_abbr"`
}

type locationTypeView struct {
	ID           int64  `json:"id"`
	LocationType string `json:"location_type"`
}

type locationView struct {
	ID               int64             `json:"id"`
	Name             string            `json:"name"`
	AdminPhoneNumber string            `json:"admin_phone_number"`
	Country          *countryView      `json:"country"`
	LocationType     *locationTypeView `json:"location_type"`
}

type userView struct {
	ID           int64         `json:"id"`
	Username     string        `json:"username"`
	EmailAddress string        `json:"email_address"`
	Position     *string       `json:"position"`
	IsAdmin      bool          `json:"is_admin"`
	Location     *locationView `json:"location"`
}

type projectView struct {
	ID                  int64   `json:"id"`
	Title               string  `json:"title"`
	PublishedDate       *string `json:"published_date"`
	Description         *string `json:"description"`
	CertificationNumber *string `json:"certification_number"`
}

type drawingView struct {
	ID              int64        `json:"id"`
	DrawingNumber   string       `json:"drawing_number"`
	PartDescription *string      `json:"part_description"`
	Version         *int64       `json:"version"`
	LastModified    time.Time    `json:"last_modified"`
	Project         *projectView `json:"project"`
}

type commentView struct {
	ID          int64        `json:"id"`
	Comment     string       `json:"comment"`
	WhenCreated time.Time    `json:"when_created"`
	LastEdited  *time.Time   `json:"last_edited"`
	Project     *projectView `json:"project"`
	User        *userView    `json:"user"`
}

type manufactureView struct {
	ID            string        `json:"id"`
	PriceEstimate float64       `json:"price_estimate"`
	Location      *locationView `json:"location"`
	Project       *projectView  `json:"project"`
	Currency      *currencyView `json:"currency"`
}

type drawingFileView struct {
	DrawingID   int64     `json:"drawing_id"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	SHA256      string    `json:"sha256"`
	UploadedBy  string    `json:"uploaded_by"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

func newCountryView(c *store.Country) *countryView {
	return &countryView{ID: c.ID, Country: c.Country}
}

func newCurrencyView(c *store.Currency) *currencyView {
	return &currencyView{ID: c.ID, CurrencyAbbr: c.CurrencyAbbr}
}

func newLocationTypeView(lt *store.LocationType) *locationTypeView {
	return &locationTypeView{ID: lt.ID, LocationType: lt.LocationType}
}

func newProjectView(p *store.Project) *projectView {
	return &projectView{
		ID:                  p.ID,
		Title:               p.Title,
		PublishedDate:       formatDatePtr(p.PublishedDate),
		Description:         p.Description,
		CertificationNumber: p.CertificationNumber,
	}
}

func newDrawingFileView(f *store.DrawingFile) *drawingFileView {
	return &drawingFileView{
		DrawingID:   f.DrawingID,
		ContentType: f.ContentType,
		SizeBytes:   f.SizeBytes,
		SHA256:      f.SHA256,
		UploadedBy:  f.UploadedBy,
		UploadedAt:  f.UploadedAt.UTC(),
	}
}

// resolver expands foreign keys into nested views. It lives for one request
// and remembers what it already loaded; the first lookup error sticks.
type resolver struct {
	db        *store.DB
	err       error
	countries map[int64]*countryView
	types     map[int64]*locationTypeView
	locs      map[int64]*locationView
	projects  map[int64]*projectView
	users     map[int64]*userView
	curr      map[int64]*currencyView
}

func newResolver(db *store.DB) *resolver {
	return &resolver{
		db:        db,
		countries: make(map[int64]*countryView),
		types:     make(map[int64]*locationTypeView),
		locs:      make(map[int64]*locationView),
		projects:  make(map[int64]*projectView),
		users:     make(map[int64]*userView),
		curr:      make(map[int64]*currencyView),
	}
}

func (rs *resolver) Err() error { return rs.err }

func (rs *resolver) fail(err error) {
	if rs.err == nil {
		rs.err = err
	}
}

func (rs *resolver) country(id int64) *countryView {
	if v, ok := rs.countries[id]; ok {
		return v
	}
	c, err := rs.db.GetCountry(id)
	if err != nil {
		rs.fail(err)
		return nil
	}
	v := newCountryView(c)
	rs.countries[id] = v
	return v
}

func (rs *resolver) locationType(id int64) *locationTypeView {
	if v, ok := rs.types[id]; ok {
		return v
	}
	lt, err := rs.db.GetLocationType(id)
	if err != nil {
		rs.fail(err)
		return nil
	}
	v := newLocationTypeView(lt)
	rs.types[id] = v
	return v
}

func (rs *resolver) currency(id int64) *currencyView {
	if v, ok := rs.curr[id]; ok {
		return v
	}
	c, err := rs.db.GetCurrency(id)
	if err != nil {
		rs.fail(err)
		return nil
	}
	v := newCurrencyView(c)
	rs.curr[id] = v
	return v
}

func (rs *resolver) locationOf(l *store.Location) *locationView {
	v := &locationView{
		ID:               l.ID,
		Name:             l.Name,
		AdminPhoneNumber: l.AdminPhoneNumber,
		Country:          rs.country(l.CountryID),
		LocationType:     rs.locationType(l.LocationTypeID),
	}
	rs.locs[l.ID] = v
	return v
}

func (rs *resolver) location(id int64) *locationView {
	if v, ok := rs.locs[id]; ok {
		return v
	}
	l, err := rs.db.GetLocation(id)
	if err != nil {
		rs.fail(err)
		return nil
	}
	return rs.locationOf(l)
}

func (rs *resolver) project(id int64) *projectView {
	if v, ok := rs.projects[id]; ok {
		return v
	}
	p, err := rs.db.GetProject(id)
	if err != nil {
		rs.fail(err)
		return nil
	}
	v := newProjectView(p)
	rs.projects[id] = v
	return v
}

func (rs *resolver) userOf(u *store.User) *userView {
	v := &userView{
		ID:           u.ID,
		Username:     u.Username,
		EmailAddress: u.EmailAddress,
		Position:     u.Position,
		IsAdmin:      u.IsAdmin,
		Location:     rs.location(u.LocationID),
	}
	rs.users[u.ID] = v
	return v
}

func (rs *resolver) user(id int64) *userView {
	if v, ok := rs.users[id]; ok {
		return v
	}
	u, err := rs.db.GetUser(id)
	if err != nil {
		rs.fail(err)
		return nil
	}
	return rs.userOf(u)
}

func (rs *resolver) drawing(d *store.Drawing) *drawingView {
	return &drawingView{
		ID:              d.ID,
		DrawingNumber:   d.DrawingNumber,
		PartDescription: d.PartDescription,
		Version:         d.Version,
		LastModified:    d.LastModified.UTC(),
		Project:         rs.project(d.ProjectID),
	}
}

func (rs *resolver) comment(c *store.Comment) *commentView {
	v := &commentView{
		ID:          c.ID,
		Comment:     c.Comment,
		WhenCreated: c.WhenCreated.UTC(),
		Project:     rs.project(c.ProjectID),
		User:        rs.user(c.UserID),
	}
	if c.LastEdited != nil {
		t := c.LastEdited.UTC()
		v.LastEdited = &t
	}
	return v
}

func (rs *resolver) manufacture(m *store.Manufacture) *manufactureView {
	return &manufactureView{
		ID:            m.ID,
		PriceEstimate: m.PriceEstimate,
		Location:      rs.location(m.LocationID),
		Project:       rs.project(m.ProjectID),
		Currency:      rs.currency(m.CurrencyID),
	}
}

func (rs *resolver) locations(ls []*store.Location) []*locationView {
	out := make([]*locationView, 0, len(ls))
	for _, l := range ls {
		out = append(out, rs.locationOf(l))
	}
	return out
}

func (rs *resolver) usersOf(us []*store.User) []*userView {
	out := make([]*userView, 0, len(us))
	for _, u := range us {
		out = append(out, rs.userOf(u))
	}
	return out
}

func (rs *resolver) drawings(ds []*store.Drawing) []*drawingView {
	out := make([]*drawingView, 0, len(ds))
	for _, d := range ds {
		out = append(out, rs.drawing(d))
	}
	return out
}

func (rs *resolver) comments(cs []*store.Comment) []*commentView {
	out := make([]*commentView, 0, len(cs))
	for _, c := range cs {
		out = append(out, rs.comment(c))
	}
	return out
}

func (rs *resolver) manufactures(ms []*store.Manufacture) []*manufactureView {
	out := make([]*manufactureView, 0, len(ms))
	for _, m := range ms {
		out = append(out, rs.manufacture(m))
	}
	return out
}

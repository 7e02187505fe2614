package store

import (
	"fmt"
	"time"
)

// PasswordHasher turns a plaintext password into the stored hash.
type PasswordHasher func(plain string) (string, error)

type seedUser struct {
	username, email, position, password string
	admin                               bool
	locationID                          int64
}

var seedUsers = []seedUser{
	{"ccosades", "ccosades@blades.com", "Mechanical Engineer", "blades4ever", true, 1},
	{"tsadus", "tsadus@genmerch.com", "Maintenance Superintendent", "justice4juib", false, 2},
	{"ajira", "ajira@magesguild.com", "Fabrication Supervisor", "alchemist4", false, 1},
	{"lvarro", "larrius.varro@legion.com", "Asset Engineer", "byanymeans", true, 3},
	{"sgravius", "sgravius@legion.com", "Workshop Supervisor", "ahyesyoumustbe", false, 4},
	{"arrille", "arrille@tradehouse.com", "Maintenance Manager", "hideindatrunk5", false, 5},
	{"prielle", "phane@cornerclub.com", "Mechanical Engineer", "savant952", true, 4},
	{"rathrys", "ranis@magesguild.com", "Asset Specialist", "alteration4life", false, 6},
	{"amantiti", "a.mantiti@mantitimining.com", "Maintenance Superintendent", "moneyyyyyy", false, 7},
	{"ehlaalu", "eno@househlaalu.com", "Diesel Fitter", "password#4", false, 7},
}

// Seed loads the demonstration catalogue into an empty database.
func (db *DB) Seed(hash PasswordHasher) error {
	for _, name := range []string{"Australia", "Indonesia", "Canada"} {
		if err := db.CreateCountry(&Country{Country: name}); err != nil {
			return fmt.Errorf("seed country %s: %w", name, err)
		}
	}
	for _, name := range []string{"Workshop", "Office", "Mine Site"} {
		if err := db.CreateLocationType(&LocationType{LocationType: name}); err != nil {
			return fmt.Errorf("seed location type %s: %w", name, err)
		}
	}
	for _, abbr := range []string{"AUD", "IDR", "CAD", "USD"} {
		if err := db.CreateCurrency(&Currency{CurrencyAbbr: abbr}); err != nil {
			return fmt.Errorf("seed currency %s: %w", abbr, err)
		}
	}

	locations := []*Location{
		{Name: "Balmora", AdminPhoneNumber: "+614 555 555 55", CountryID: 1, LocationTypeID: 1},
		{Name: "Ald'ruhn", AdminPhoneNumber: "+614 666 666 66", CountryID: 1, LocationTypeID: 2},
		{Name: "Gnisis", AdminPhoneNumber: "+614 777 777 77", CountryID: 1, LocationTypeID: 3},
		{Name: "Seyda Neen", AdminPhoneNumber: "+625 487 434 43", CountryID: 2, LocationTypeID: 1},
		{Name: "Khuul", AdminPhoneNumber: "+625 888 888 69", CountryID: 2, LocationTypeID: 3},
		{Name: "Sadrith Mora", AdminPhoneNumber: "+1250 555 0199", CountryID: 3, LocationTypeID: 2},
		{Name: "Vivec", AdminPhoneNumber: "+1875 900 0001", CountryID: 3, LocationTypeID: 3},
	}
	for _, l := range locations {
		if err := db.CreateLocation(l); err != nil {
			return fmt.Errorf("seed location %s: %w", l.Name, err)
		}
	}

	for _, su := range seedUsers {
		pw, err := hash(su.password)
		if err != nil {
			return fmt.Errorf("seed user %s: %w", su.username, err)
		}
		position := su.position
		u := &User{Username: su.username, EmailAddress: su.email, Position: &position,
			PasswordHash: pw, IsAdmin: su.admin, LocationID: su.locationID}
		if err := db.CreateUser(u); err != nil {
			return fmt.Errorf("seed user %s: %w", su.username, err)
		}
	}

	projects := []*Project{
		{Title: "789C BTG Access System", PublishedDate: seedDate("2014-01-22"),
			Description: strPtr("Bumper-to-ground access system for Caterpillar 789C."), CertificationNumber: strPtr("S0004513")},
		{Title: "CAT MD6310 Feed Cyl Transport Frame", CertificationNumber: strPtr("S0023546")},
		{Title: "RWG Stud Pressing Tool", Description: strPtr("Suits 785, 789, 793 Std RWGs."), CertificationNumber: strPtr("S0012344")},
		{Title: "789C Chassis Rails", PublishedDate: seedDate("2005-05-01"),
			Description: strPtr("Handrails for safe access on 789C chassis."), CertificationNumber: strPtr("S76453")},
		{Title: "R996 Bucket Cylinder Rock Guards", PublishedDate: seedDate("2023-01-10"),
			Description: strPtr("Suits both left & right cylinders. Bolt-on design.")},
		{Title: "OHT RWG Disassembly Stand", Description: strPtr("Rotating disassembly/assembly stand."), CertificationNumber: strPtr("S471633")},
		{Title: "Pump Drive Box Rotator", Description: strPtr("Worktable mounted rotator for disassembly and assembly.")},
		{Title: "793F Brake Accumulator Set Transport Frame", Description: strPtr("Suits set of 3 x 793F brake accumulators."),
			CertificationNumber: strPtr("S8789422")},
	}
	for _, p := range projects {
		if err := db.CreateProject(p); err != nil {
			return fmt.Errorf("seed project %s: %w", p.Title, err)
		}
	}

	now := time.Now()
	drawings := []*Drawing{
		{DrawingNumber: "41756", ProjectID: 1, PartDescription: strPtr("pin"), Version: intPtr(1)},
		{DrawingNumber: "41757", ProjectID: 1, PartDescription: strPtr("step asm"), Version: intPtr(1)},
		{DrawingNumber: "41758", ProjectID: 1, PartDescription: strPtr("stringer"), Version: intPtr(1)},
		{DrawingNumber: "39857", ProjectID: 2, PartDescription: strPtr("general assembly"), Version: intPtr(4)},
		{DrawingNumber: "40987", ProjectID: 2},
		{DrawingNumber: "41999", ProjectID: 2},
		{DrawingNumber: "41087", ProjectID: 2},
		{DrawingNumber: "41088", ProjectID: 2},
		{DrawingNumber: "52321", ProjectID: 3, PartDescription: strPtr("tool"), Version: intPtr(2)},
		{DrawingNumber: "45643", ProjectID: 4},
		{DrawingNumber: "54433", ProjectID: 5, PartDescription: strPtr("General Assembly"), Version: intPtr(4)},
		{DrawingNumber: "42329", ProjectID: 6},
		{DrawingNumber: "56466", ProjectID: 7},
		{DrawingNumber: "45634", ProjectID: 8, PartDescription: strPtr("Frame"), Version: intPtr(1)},
		{DrawingNumber: "45635", ProjectID: 8, PartDescription: strPtr("Supports"), Version: intPtr(1)},
	}
	for _, d := range drawings {
		d.LastModified = now
		if err := db.CreateDrawing(d); err != nil {
			return fmt.Errorf("seed drawing %s: %w", d.DrawingNumber, err)
		}
	}

	comments := []*Comment{
		{ProjectID: 1, UserID: 2, Comment: "Does this design suit the 789D models?"},
		{ProjectID: 1, UserID: 1, Comment: "Yes, this design should suit the 789D's."},
		{ProjectID: 1, UserID: 2, Comment: "Thanks for clearing that up."},
		{ProjectID: 2, UserID: 3, Comment: "Can this transport frame be transported on a standard 12m trailer?"},
		{ProjectID: 2, UserID: 1, Comment: "No, an extended trailer is required to transport this component/frame."},
		{ProjectID: 8, UserID: 5, Comment: "Will this frame fit steering accumulators?"},
		{ProjectID: 8, UserID: 7, Comment: "No, they would be too long for this frame."},
	}
	for _, c := range comments {
		c.WhenCreated = now
		if err := db.CreateComment(c); err != nil {
			return fmt.Errorf("seed comment: %w", err)
		}
	}

	manufactures := []*Manufacture{
		{LocationID: 1, ProjectID: 1, PriceEstimate: 22000, CurrencyID: 1},
		{LocationID: 1, ProjectID: 2, PriceEstimate: 14000, CurrencyID: 1},
		{LocationID: 1, ProjectID: 3, PriceEstimate: 2324.50, CurrencyID: 1},
		{LocationID: 1, ProjectID: 7, PriceEstimate: 3500.00, CurrencyID: 1},
		{LocationID: 1, ProjectID: 8, PriceEstimate: 1523.57, CurrencyID: 1},
		{LocationID: 2, ProjectID: 1, PriceEstimate: 150000000, CurrencyID: 2},
		{LocationID: 2, ProjectID: 4, PriceEstimate: 49810000, CurrencyID: 2},
		{LocationID: 2, ProjectID: 5, PriceEstimate: 300000000, CurrencyID: 2},
		{LocationID: 2, ProjectID: 6, PriceEstimate: 120000000, CurrencyID: 2},
		{LocationID: 2, ProjectID: 8, PriceEstimate: 12000000, CurrencyID: 2},
	}
	for _, m := range manufactures {
		if err := db.CreateManufacture(m); err != nil {
			return fmt.Errorf("seed manufacture %s: %w", ManufactureKey(m.LocationID, m.ProjectID), err)
		}
	}
	return nil
}

func seedDate(s string) *time.Time {
	t, _ := time.Parse(dateLayout, s)
	return &t
}

func strPtr(s string) *string { return &s }
func intPtr(i int64) *int64   { return &i }

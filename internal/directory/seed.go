package directory

import "github.com/dmitrijs2005/profilekeeper/internal/models"

// Record pairs a user with their password. It is the unit of a snapshot.
type Record struct {
	User     models.User `json:"user"`
	Password string      `json:"password"`
}

// DemoRecords are the accounts a fresh directory is seeded with. Ids are
// assigned by Seed.
func DemoRecords() []Record {
	return []Record{
		{
			User: models.User{
				Username:  "ivan",
				Email:     "john@example.com",
				FirstName: "John",
				LastName:  "Doe",
				Avatar:    "https://randomuser.me/api/portraits/men/1.jpg",
				Phone:     "+1234567890",
				Address:   "123 Main St, City",
				Bio:       "Software developer with 5 years of experience",
			},
			Password: "password123",
		},
		{
			User: models.User{
				Username:  "jane_smith",
				Email:     "jane@example.com",
				FirstName: "Jane",
				LastName:  "Smith",
				Avatar:    "https://randomuser.me/api/portraits/women/2.jpg",
				Phone:     "+0987654321",
				Address:   "456 Oak St, Town",
				Bio:       "UX designer passionate about user-centered design",
			},
			Password: "password456",
		},
		{
			User: models.User{
				Username:  "alex_wilson",
				Email:     "alex@example.com",
				FirstName: "Alex",
				LastName:  "Wilson",
				Avatar:    "https://randomuser.me/api/portraits/men/3.jpg",
				Phone:     "+1122334455",
				Address:   "789 Pine St, Village",
				Bio:       "Product manager with a background in marketing",
			},
			Password: "password789",
		},
	}
}

// Seed adds the demo accounts, keeping their full contact details.
func (d *Directory) Seed() error {
	for _, r := range DemoRecords() {
		if _, err := d.insert(r.User, r.Password); err != nil {
			return err
		}
	}
	return nil
}

// NewSeeded returns a directory holding the demo accounts.
func NewSeeded() *Directory {
	d := New()
	// A fresh directory cannot hold duplicates.
	_ = d.Seed()
	return d
}

package kommo

// CreateLeadInput describes the CRM deal opened for a sales follow-up.
type CreateLeadInput struct {
	Name   string
	Email  string
	Phone  string
	Course string
	Price  float64
	Tag    string
	Note   string
}

type embeddedIDs struct {
	Embedded struct {
		Leads []struct {
			ID int `json:"id"`
		} `json:"leads"`
		Contacts []struct {
			ID int `json:"id"`
		} `json:"contacts"`
	} `json:"_embedded"`
}

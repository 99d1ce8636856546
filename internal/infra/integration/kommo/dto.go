package kommo

type CreateLeadInput struct {
	Name            string
	Phone           string
	Email           string
	ServiceInterest string
	Source          string
	Location        string
	Score           int
}

type customField struct {
	FieldCode string       `json:"field_code"`
	Values    []fieldValue `json:"values"`
}

type fieldValue struct {
	Value    string `json:"value"`
	EnumCode string `json:"enum_code,omitempty"`
}

type contactRequest struct {
	Name         string        `json:"name"`
	CustomFields []customField `json:"custom_fields_values,omitempty"`
}

type tag struct {
	Name string `json:"name"`
}

type idRef struct {
	ID int `json:"id"`
}

type leadRequest struct {
	Name     string `json:"name"`
	Price    int    `json:"price,omitempty"`
	Embedded struct {
		Tags     []tag   `json:"tags,omitempty"`
		Contacts []idRef `json:"contacts,omitempty"`
	} `json:"_embedded"`
}

// embeddedResponse covers the list envelopes of /contacts and /leads.
type embeddedResponse struct {
	Embedded struct {
		Contacts []idRef `json:"contacts"`
		Leads    []idRef `json:"leads"`
	} `json:"_embedded"`
}

package crm

type contactField struct {
	FieldCode string       `json:"field_code"`
	Values    []fieldValue `json:"values"`
}

type fieldValue struct {
	Value    string `json:"value"`
	EnumCode string `json:"enum_code,omitempty"`
}

type contactRequest struct {
	Name               string         `json:"name"`
	CustomFieldsValues []contactField `json:"custom_fields_values"`
}

type tag struct {
	Name string `json:"name"`
}

type idRef struct {
	ID int `json:"id"`
}

type leadEmbedded struct {
	Tags     []tag   `json:"tags"`
	Contacts []idRef `json:"contacts"`
}

type leadRequest struct {
	Name     string       `json:"name"`
	Embedded leadEmbedded `json:"_embedded"`
}

type embeddedIDs struct {
	Embedded struct {
		Leads    []idRef `json:"leads"`
		Contacts []idRef `json:"contacts"`
	} `json:"_embedded"`
}
